package agent

import (
	"fmt"

	"github.com/parthshr370/agentrt/message"
)

// history owns the conversation log and enforces two invariants on append:
// a tool message only follows an assistant message whose tool calls include
// its tool_call_id, and at most one system message exists, always first.
type history struct {
	messages []message.Message
	system   *message.Message
	// pendingToolCallIDs is the set of tool_call_ids the most recent
	// assistant message issued and has not yet been answered by a tool
	// message.
	pendingToolCallIDs map[string]bool
}

func newHistory(systemPrompt string) *history {
	h := &history{pendingToolCallIDs: map[string]bool{}}
	if systemPrompt != "" {
		sys := message.NewSystemMessage(systemPrompt)
		h.system = &sys
	}
	return h
}

// snapshot returns the full ordered history, system message first if set.
func (h *history) snapshot() []message.Message {
	if h.system == nil {
		out := make([]message.Message, len(h.messages))
		copy(out, h.messages)
		return out
	}
	out := make([]message.Message, 0, len(h.messages)+1)
	out = append(out, *h.system)
	out = append(out, h.messages...)
	return out
}

func (h *history) appendUser(content string) {
	h.messages = append(h.messages, message.NewUserMessage(content))
}

func (h *history) appendAssistant(content string, toolCalls []message.ToolCall, providerExtras any) {
	h.messages = append(h.messages, message.NewAssistantMessage(content, toolCalls, providerExtras))
	h.pendingToolCallIDs = map[string]bool{}
	for _, call := range toolCalls {
		h.pendingToolCallIDs[call.ID] = true
	}
}

// appendTool rejects a toolCallID the immediately preceding assistant turn
// did not issue.
func (h *history) appendTool(toolCallID, name, content string) error {
	if toolCallID != "" && !h.pendingToolCallIDs[toolCallID] {
		return fmt.Errorf("agent: tool message for id %q does not match any pending tool call", toolCallID)
	}
	delete(h.pendingToolCallIDs, toolCallID)
	h.messages = append(h.messages, message.NewToolMessage(toolCallID, name, content))
	return nil
}

// clear resets history to empty, or to the system message alone if a
// system prompt was configured. Calling twice equals calling once.
func (h *history) clear() {
	h.messages = nil
	h.pendingToolCallIDs = map[string]bool{}
}

// prune keeps only the system message (if any) plus the last keepLastTurns
// user/assistant/tool turns, counting a user message as starting a new
// turn. Agent.Prune is the only caller; nothing prunes automatically.
func (h *history) prune(keepLastTurns int) {
	if keepLastTurns <= 0 || len(h.messages) == 0 {
		return
	}

	turnStarts := make([]int, 0)
	for i, m := range h.messages {
		if m.Role == message.RoleUser {
			turnStarts = append(turnStarts, i)
		}
	}
	if len(turnStarts) <= keepLastTurns {
		return
	}

	cut := turnStarts[len(turnStarts)-keepLastTurns]
	h.messages = h.messages[cut:]
}
