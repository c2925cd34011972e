// Package openai implements the OpenAI-style wire adapter: a flat
// chat-completions request/response shape shared by OpenAI itself and every
// OpenAI-compatible gateway (OpenRouter, Groq, DeepSeek, Ollama, vLLM, …).
// The neutral message types are not wire-shaped, so translation to and
// from the flat format is explicit in translateMessages and Chat.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parthshr370/agentrt/internal/agenterr"
	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/message"
)

// Known OpenAI-compatible base URLs, offered as a convenience. Any
// OpenAI-compatible endpoint works via New's baseURL argument.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	GroqBaseURL       = "https://api.groq.com/openai/v1"
	DeepSeekBaseURL   = "https://api.deepseek.com/v1"
	TogetherBaseURL   = "https://api.together.xyz/v1"
	MistralBaseURL    = "https://api.mistral.ai/v1"
)

// Client is the OpenAI-style provider.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// DefaultModel is the model used when New is given an empty model.
const DefaultModel = "gpt-4o-mini"

// New builds a Client. model defaults to DefaultModel and baseURL to
// DefaultBaseURL when empty; timeout defaults to 60s when zero, per the
// open-source adapter default.
func New(apiKey, model, baseURL string, timeout time.Duration, maxTokens int) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.GetLogger("provider.openai"),
	}
}

func (c *Client) ModelName() string { return c.model }

func (c *Client) SupportsFunctionCalling() bool { return true }

// wire request/response shapes.

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function wireFunctionRef `json:"function"`
}

type wireFunctionRef struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string          `json:"type"`
	Function wireFunctionDef `json:"function"`
}

type wireFunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	Tools       []wireTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
}

type wireResponse struct {
	Choices []struct {
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// translateMessages converts neutral history into the flat wire shape.
// An assistant message's tool calls are reconstructed from ProviderExtras
// when present — that was captured as []wireToolCall on a prior response —
// otherwise from the message's own ToolCalls, and an assistant message
// with neither is sent as plain text.
func translateMessages(history []message.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history))
	for _, m := range history {
		wm := wireMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		if m.Role == message.RoleAssistant {
			if extras, ok := m.ProviderExtras.([]wireToolCall); ok && len(extras) > 0 {
				wm.ToolCalls = extras
			} else if len(m.ToolCalls) > 0 {
				wm.ToolCalls = toWireToolCalls(m.ToolCalls)
			}
		}
		out = append(out, wm)
	}
	return out
}

func toWireToolCalls(calls []message.ToolCall) []wireToolCall {
	out := make([]wireToolCall, 0, len(calls))
	for _, call := range calls {
		args, err := json.Marshal(call.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		out = append(out, wireToolCall{
			ID:   call.ID,
			Type: "function",
			Function: wireFunctionRef{
				Name:      call.Name,
				Arguments: string(args),
			},
		})
	}
	return out
}

func translateTools(functions []message.FunctionSpec) []wireTool {
	if len(functions) == 0 {
		return nil
	}
	tools := make([]wireTool, 0, len(functions))
	for _, fn := range functions {
		tools = append(tools, wireTool{
			Type: "function",
			Function: wireFunctionDef{
				Name:        fn.Name,
				Description: fn.Description,
				Parameters:  fn.Parameters,
			},
		})
	}
	return tools
}

// encodeRequest merges extras into the marshaled request as additional
// top-level fields, letting callers pass provider-specific knobs
// (max_tokens, top_p, stop, …) without widening the wire structs.
func encodeRequest(req wireRequest, extras map[string]any) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil || len(extras) == 0 {
		return body, err
	}
	var merged map[string]any
	if err := json.Unmarshal(body, &merged); err != nil {
		return nil, err
	}
	for k, v := range extras {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Chat implements provider.Provider.
func (c *Client) Chat(ctx context.Context, history []message.Message, functions []message.FunctionSpec, temperature float64, extras map[string]any) (message.Response, error) {
	req := wireRequest{
		Model:       c.model,
		Messages:    translateMessages(history),
		Temperature: temperature,
		Tools:       translateTools(functions),
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = "auto"
	}

	body, err := encodeRequest(req, extras)
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var wresp wireResponse
	if err := json.Unmarshal(respBody, &wresp); err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", fmt.Errorf("decode response: %w", err))
	}
	if len(wresp.Choices) == 0 {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", fmt.Errorf("response has no choices"))
	}

	choice := wresp.Choices[0]
	var toolCalls []message.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			// Malformed arguments drop this one call, not the whole
			// response.
			c.logger.Warning(ctx, "dropping tool call with malformed JSON arguments",
				logging.WithName("openai.argument_decode_error"),
				logging.WithData(map[string]interface{}{"tool": tc.Function.Name, "raw": tc.Function.Arguments}))
			continue
		}
		toolCalls = append(toolCalls, message.ToolCall{
			Name:      tc.Function.Name,
			Arguments: args,
			ID:        tc.ID,
		})
	}

	response := message.Response{
		Content:      choice.Message.Content,
		ToolCalls:    toolCalls,
		FinishReason: choice.FinishReason,
		// RawBlocks carries the wire tool calls verbatim (including ones
		// later dropped from ToolCalls above) so a replayed assistant turn
		// reproduces exactly what the provider sent.
		RawBlocks: choice.Message.ToolCalls,
	}
	if err := response.ValidateNonEmpty(); err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, "openai", err)
	}
	return response, nil
}
