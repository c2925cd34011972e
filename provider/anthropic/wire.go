package anthropic

import "encoding/json"

// wireRequest is the top-level body for POST /v1/messages. System prompt is
// a top-level string, not a message; max_tokens is required.
type wireRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// wireMessage carries either a plain-text content string or a content
// block array, hence the json.RawMessage — Anthropic accepts both shapes
// and which one applies depends on what produced the message.
type wireMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// block is the union type for every content block this adapter handles:
// text, thinking (request replay only — the API never expects us to
// synthesize one), tool_use (assistant requesting a call), and tool_result
// (us answering one). Which fields are populated depends on Type.
type block struct {
	Type string `json:"type"`

	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`

	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`

	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   any    `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

type wireTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// wireResponse is the top-level response from POST /v1/messages. No
// "choices" array — Anthropic returns one response directly with content
// blocks, and uses "stop_reason" rather than "finish_reason".
type wireResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Role       string  `json:"role"`
	Content    []block `json:"content"`
	Model      string  `json:"model"`
	StopReason string  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
