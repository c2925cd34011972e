package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToolMessagePanicsOnEmptyName(t *testing.T) {
	assert.Panics(t, func() {
		NewToolMessage("call_1", "", "result")
	})
}

func TestNewToolMessage(t *testing.T) {
	m := NewToolMessage("call_1", "get_weather", "sunny")
	assert.Equal(t, RoleTool, m.Role)
	assert.Equal(t, "call_1", m.ToolCallID)
	assert.Equal(t, "get_weather", m.Name)
	assert.Equal(t, "sunny", m.Content)
}

func TestResponseValidateNonEmpty(t *testing.T) {
	empty := Response{}
	assert.Error(t, empty.ValidateNonEmpty())

	withContent := Response{Content: "hello"}
	assert.NoError(t, withContent.ValidateNonEmpty())

	withToolCalls := Response{ToolCalls: []ToolCall{{Name: "x", ID: "1"}}}
	assert.NoError(t, withToolCalls.ValidateNonEmpty())
}
