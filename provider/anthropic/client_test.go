package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthshr370/agentrt/message"
)

func TestChatExtractsSystemAndDecodesBlocks(t *testing.T) {
	var captured wireRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := wireResponse{
			Content: []block{
				{Type: "thinking", Thinking: "reasoning about it"},
				{Type: "text", Text: "the answer"},
				{Type: "tool_use", ID: "toolu_1", Name: "get_weather", Input: map[string]any{"city": "Paris"}},
			},
			StopReason: "tool_use",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClaude("key", "claude-sonnet-4-5", 0, 0).WithBaseURL(server.URL)

	history := []message.Message{
		message.NewSystemMessage("be helpful"),
		message.NewSystemMessage("be terse"),
		message.NewUserMessage("weather in paris?"),
	}

	resp, err := c.Chat(context.Background(), history, nil, 0.1, nil)
	require.NoError(t, err)

	assert.Equal(t, "be helpful\nbe terse", captured.System)
	for _, m := range captured.Messages {
		assert.NotEqual(t, "system", m.Role)
	}

	assert.Equal(t, "the answer", resp.Content)
	assert.Equal(t, "reasoning about it", resp.Metadata["thinking"])
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "Paris", resp.ToolCalls[0].Arguments["city"])
	assert.Equal(t, "tool_calls", resp.FinishReason)
}

func TestChatFoldsConsecutiveToolMessages(t *testing.T) {
	var captured wireRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := wireResponse{Content: []block{{Type: "text", Text: "done"}}, StopReason: "end_turn"}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClaude("key", "", 0, 0).WithBaseURL(server.URL)

	priorBlocks := []block{
		{Type: "tool_use", ID: "toolu_a", Name: "f", Input: map[string]any{}},
		{Type: "tool_use", ID: "toolu_b", Name: "g", Input: map[string]any{}},
	}

	history := []message.Message{
		message.NewAssistantMessage("", []message.ToolCall{
			{Name: "f", ID: "toolu_a"},
			{Name: "g", ID: "toolu_b"},
		}, priorBlocks),
		message.NewToolMessage("toolu_a", "f", "result a"),
		message.NewToolMessage("toolu_b", "g", "result b"),
	}

	_, err := c.Chat(context.Background(), history, nil, 0.1, nil)
	require.NoError(t, err)

	require.Len(t, captured.Messages, 2, "assistant turn + one folded user turn with both tool_results")

	assert.Equal(t, "assistant", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)

	var resultBlocks []block
	require.NoError(t, json.Unmarshal(captured.Messages[1].Content, &resultBlocks))
	require.Len(t, resultBlocks, 2)
	assert.Equal(t, "toolu_a", resultBlocks[0].ToolUseID)
	assert.Equal(t, "toolu_b", resultBlocks[1].ToolUseID)
}

func TestChatSynthesizesIDWhenToolCallIDMissing(t *testing.T) {
	var captured wireRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := wireResponse{Content: []block{{Type: "text", Text: "ok"}}, StopReason: "end_turn"}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClaude("key", "", 0, 0).WithBaseURL(server.URL)

	history := []message.Message{
		message.NewToolMessage("", "get_weather", "sunny"),
	}

	_, err := c.Chat(context.Background(), history, nil, 0.1, nil)
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	var resultBlocks []block
	require.NoError(t, json.Unmarshal(captured.Messages[0].Content, &resultBlocks))
	require.Len(t, resultBlocks, 1)
	assert.Equal(t, "call_get_weather", resultBlocks[0].ToolUseID)
}

func TestMiniMaxVariantUsesLargerDefaultMaxTokens(t *testing.T) {
	claude := NewClaude("key", "", 0, 0)
	minimax := NewMiniMax("key", "", 0, 0)

	assert.Equal(t, 2048, claude.maxTokens)
	assert.Equal(t, 4096, minimax.maxTokens)
	assert.NotEqual(t, claude.baseURL, minimax.baseURL)
}
