package adaptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tingly-dev/streambox/pkg/event"
)

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Nil(t, Normalize(&RawDelta{}))
}

func TestNormalizeTextOnly(t *testing.T) {
	events := Normalize(&RawDelta{Content: "Hi"})
	require.Len(t, events, 1)
	assert.Equal(t, event.KindText, events[0].Kind)
	assert.Equal(t, "Hi", events[0].Text)
}

func TestNormalizeTextWithFinishReason(t *testing.T) {
	// One record carrying both a fragment and a finish reason yields two
	// events, text first.
	events := Normalize(&RawDelta{
		Content:      "bye",
		FinishReason: "stop",
		Usage:        &event.Usage{TotalTokens: 5},
	})
	require.Len(t, events, 2)
	assert.Equal(t, event.KindText, events[0].Kind)
	assert.Equal(t, event.KindCompletion, events[1].Kind)
	assert.Equal(t, "stop", events[1].FinishReason)
	require.NotNil(t, events[1].Usage)
	assert.Equal(t, 5, events[1].Usage.TotalTokens)
}

func TestNormalizeThinkingBeforeText(t *testing.T) {
	events := Normalize(&RawDelta{Content: "answer", Thinking: "reasoning"})
	require.Len(t, events, 2)
	assert.Equal(t, event.KindThinking, events[0].Kind)
	assert.Equal(t, event.KindText, events[1].Kind)
}

func TestNormalizeToolCallsPreserveIndex(t *testing.T) {
	events := Normalize(&RawDelta{
		ToolCalls: []ToolCallFragment{
			{Index: 2, Arguments: `{"b":`},
			{Index: 0, Arguments: `{"a":`},
		},
	})
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].ToolCall.Index)
	assert.Equal(t, 0, events[1].ToolCall.Index)
}

func TestNormalizeUsageWithoutFinish(t *testing.T) {
	events := Normalize(&RawDelta{Usage: &event.Usage{PromptTokens: 3, TotalTokens: 3}})
	require.Len(t, events, 1)
	assert.Equal(t, event.KindCompletion, events[0].Kind)
	assert.Empty(t, events[0].FinishReason)
}

func TestNormalizeProviderError(t *testing.T) {
	events := Normalize(&RawDelta{ErrorType: "overloaded_error", ErrorMessage: "try later"})
	require.Len(t, events, 1)
	assert.Equal(t, event.KindError, events[0].Kind)
	require.Error(t, events[0].Err)
	assert.Contains(t, events[0].Err.Error(), "overloaded_error")
}
