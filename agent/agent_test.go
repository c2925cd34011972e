package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthshr370/agentrt/message"
	"github.com/parthshr370/agentrt/registry"
)

// scriptedProvider replays a fixed sequence of responses, one per Chat
// call, repeating the last entry once the script runs out.
type scriptedProvider struct {
	responses []message.Response
	calls     int
	supports  bool
}

func (p *scriptedProvider) Chat(_ context.Context, _ []message.Message, _ []message.FunctionSpec, _ float64, _ map[string]any) (message.Response, error) {
	if p.calls >= len(p.responses) {
		return p.responses[len(p.responses)-1], nil
	}
	r := p.responses[p.calls]
	p.calls++
	return r, nil
}

func (p *scriptedProvider) SupportsFunctionCalling() bool { return p.supports }
func (p *scriptedProvider) ModelName() string             { return "scripted" }

type addArgs struct {
	A int `json:"a"`
	B int `json:"b"`
}

type addResult struct {
	Sum int `json:"sum"`
}

func addTool(args addArgs) (addResult, error) {
	return addResult{Sum: args.A + args.B}, nil
}

func boomTool(args struct{}) (string, error) {
	return "", errors.New("boom")
}

// Scenario 1: plain chat, no tool calls.
func TestChatPlainReply(t *testing.T) {
	p := &scriptedProvider{
		supports:  true,
		responses: []message.Response{{Content: "hello"}},
	}
	a := New(p)

	result, err := a.Chat(context.Background(), "hi", nil)
	require.NoError(t, err)

	assert.Equal(t, "hello", result.Content)
	assert.Empty(t, result.ToolCallsTrace)
	assert.Equal(t, 1, result.Iterations)

	snap := a.history.snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, message.RoleUser, snap[0].Role)
	assert.Equal(t, "hi", snap[0].Content)
	assert.Equal(t, message.RoleAssistant, snap[1].Role)
	assert.Equal(t, "hello", snap[1].Content)
}

// Scenario 2: single tool call round-trip.
func TestChatSingleToolCall(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registry.Register(reg, "add", "adds two numbers", addTool, nil))

	p := &scriptedProvider{
		supports: true,
		responses: []message.Response{
			{ToolCalls: []message.ToolCall{{Name: "add", Arguments: map[string]any{"a": float64(2), "b": float64(3)}, ID: "c1"}}},
			{Content: "the sum is 5"},
		},
	}
	a := New(p, WithRegistry(reg))

	result, err := a.Chat(context.Background(), "add 2 and 3", nil)
	require.NoError(t, err)

	assert.Equal(t, "the sum is 5", result.Content)
	assert.Equal(t, 2, result.Iterations)
	require.Len(t, result.ToolCallsTrace, 1)
	assert.Equal(t, "add", result.ToolCallsTrace[0].Name)

	var toolMsg *message.Message
	for i := range a.history.messages {
		if a.history.messages[i].Role == message.RoleTool {
			toolMsg = &a.history.messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Equal(t, "add", toolMsg.Name)
	assert.Equal(t, "c1", toolMsg.ToolCallID)
	assert.Contains(t, toolMsg.Content, "5")
}

// Scenario 3: a failing tool surfaces as a "错误: " tool result, not an error.
func TestChatToolErrorSurfacedToModel(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registry.Register(reg, "boom", "always fails", boomTool, nil))

	p := &scriptedProvider{
		supports: true,
		responses: []message.Response{
			{ToolCalls: []message.ToolCall{{Name: "boom", Arguments: map[string]any{}, ID: "c1"}}},
			{Content: "I saw an error"},
		},
	}
	a := New(p, WithRegistry(reg))

	result, err := a.Chat(context.Background(), "trigger boom", nil)
	require.NoError(t, err)
	assert.Equal(t, "I saw an error", result.Content)

	var toolMsg *message.Message
	for i := range a.history.messages {
		if a.history.messages[i].Role == message.RoleTool {
			toolMsg = &a.history.messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.True(t, strings.HasPrefix(toolMsg.Content, "错误"))
}

// Scenario 4: iteration cap is reached without an error.
func TestChatIterationCapReached(t *testing.T) {
	p := &scriptedProvider{
		supports: true,
		responses: []message.Response{
			{ToolCalls: []message.ToolCall{{Name: "noop", Arguments: map[string]any{}, ID: "c1"}}},
		},
	}
	reg := registry.New()
	require.NoError(t, registry.Register(reg, "noop", "does nothing", func(struct{}) (string, error) { return "ok", nil }, nil))
	a := New(p, WithRegistry(reg), WithMaxIterations(3))

	result, err := a.Chat(context.Background(), "loop forever", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Iterations)
	assert.Len(t, result.ToolCallsTrace, 3)
}

// ClearHistory is idempotent.
func TestClearHistoryIdempotent(t *testing.T) {
	p := &scriptedProvider{responses: []message.Response{{Content: "hi"}}}
	a := New(p, WithSystemPrompt("be nice"))

	_, err := a.Chat(context.Background(), "hello", nil)
	require.NoError(t, err)

	a.ClearHistory()
	afterFirst := a.history.snapshot()
	a.ClearHistory()
	afterSecond := a.history.snapshot()

	assert.Equal(t, afterFirst, afterSecond)
	require.Len(t, afterFirst, 1)
	assert.Equal(t, message.RoleSystem, afterFirst[0].Role)
}

// Functions are only sent to providers that declare support, and only when
// the registry is non-empty.
func TestFunctionsOmittedWhenProviderDoesNotSupportThem(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registry.Register(reg, "add", "adds two numbers", addTool, nil))

	var capturedFuncCount int
	p := &capturingProvider{
		onChat: func(functions []message.FunctionSpec) {
			capturedFuncCount = len(functions)
		},
		response: message.Response{Content: "done"},
	}
	a := New(p, WithRegistry(reg))

	_, err := a.Chat(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, capturedFuncCount)
}

type capturingProvider struct {
	onChat   func(functions []message.FunctionSpec)
	response message.Response
}

func (p *capturingProvider) Chat(_ context.Context, _ []message.Message, functions []message.FunctionSpec, _ float64, _ map[string]any) (message.Response, error) {
	p.onChat(functions)
	return p.response, nil
}

func (p *capturingProvider) SupportsFunctionCalling() bool { return false }
func (p *capturingProvider) ModelName() string             { return "capturing" }
