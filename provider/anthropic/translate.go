package anthropic

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/message"
)

// buildMessages performs system extraction, tool-result folding, and
// assistant-turn replay, in one left-to-right pass over history with a
// pending buffer for tool messages.
//
// The pending buffer is the mechanism that satisfies the ordering
// guarantee: tool messages accumulate into it in the order they appear;
// the next non-tool message (or end of history) flushes the buffer as one
// user turn containing tool_result blocks in that same order, before the
// triggering message is itself emitted.
func buildMessages(ctx context.Context, history []message.Message, logger logging.Logger) (system string, messages []wireMessage) {
	var systemParts []string
	var pending []block

	flush := func() {
		if len(pending) == 0 {
			return
		}
		content, _ := json.Marshal(pending)
		messages = append(messages, wireMessage{Role: "user", Content: content})
		pending = nil
	}

	for _, m := range history {
		switch m.Role {
		case message.RoleSystem:
			systemParts = append(systemParts, m.Content)

		case message.RoleTool:
			toolUseID := m.ToolCallID
			if toolUseID == "" {
				toolUseID = "call_" + m.Name
				logger.Warning(ctx, "tool message missing tool_call_id, synthesizing one",
					logging.WithName("anthropic.degraded_tool_use_id"),
					logging.WithData(map[string]interface{}{"name": m.Name, "synthesized_id": toolUseID}))
			}
			pending = append(pending, block{
				Type:      "tool_result",
				ToolUseID: toolUseID,
				Content:   m.Content,
			})

		case message.RoleUser:
			flush()
			content, _ := json.Marshal(m.Content)
			messages = append(messages, wireMessage{Role: "user", Content: content})

		case message.RoleAssistant:
			flush()
			var content json.RawMessage
			if blocks, ok := m.ProviderExtras.([]block); ok && len(blocks) > 0 {
				content, _ = json.Marshal(blocks)
			} else {
				content, _ = json.Marshal(m.Content)
			}
			messages = append(messages, wireMessage{Role: "assistant", Content: content})
		}
	}
	flush() // end-of-history flush covers trailing tool messages

	return strings.Join(systemParts, "\n"), messages
}

func translateTools(functions []message.FunctionSpec) []wireTool {
	if len(functions) == 0 {
		return nil
	}
	tools := make([]wireTool, 0, len(functions))
	for _, fn := range functions {
		tools = append(tools, wireTool{
			Name:        fn.Name,
			Description: fn.Description,
			InputSchema: fn.Parameters,
		})
	}
	return tools
}

// decodeResponse concatenates text blocks into content and thinking blocks
// into metadata["thinking"], turns each tool_use into a ToolCall, and
// retains the original block list as RawBlocks for next-turn replay.
func decodeResponse(resp wireResponse) message.Response {
	var textParts, thinkingParts []string
	var toolCalls []message.ToolCall

	for _, b := range resp.Content {
		switch b.Type {
		case "text":
			textParts = append(textParts, b.Text)
		case "thinking":
			thinkingParts = append(thinkingParts, b.Thinking)
		case "tool_use":
			toolCalls = append(toolCalls, message.ToolCall{
				Name:      b.Name,
				Arguments: asArgumentMap(b.Input),
				ID:        b.ID,
			})
		}
	}

	var metadata map[string]any
	if len(thinkingParts) > 0 {
		metadata = map[string]any{"thinking": strings.Join(thinkingParts, "")}
	}

	return message.Response{
		Content:      strings.Join(textParts, ""),
		ToolCalls:    toolCalls,
		FinishReason: normalizeFinishReason(resp.StopReason),
		RawBlocks:    resp.Content,
		Metadata:     metadata,
	}
}

func asArgumentMap(input any) map[string]any {
	if m, ok := input.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func normalizeFinishReason(stopReason string) string {
	switch stopReason {
	case "end_turn":
		return "stop"
	case "tool_use":
		return "tool_calls"
	case "max_tokens":
		return "length"
	default:
		return stopReason
	}
}
