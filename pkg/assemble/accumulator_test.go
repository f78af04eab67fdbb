package assemble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorConcatenatesInArrivalOrder(t *testing.T) {
	acc := NewToolCallAccumulator()
	acc.Add(0, "call_1", "get_weather", "")
	acc.Add(0, "", "", `{"city":`)
	acc.Add(0, "", "", `"London"`)
	acc.Add(0, "", "", `}`)

	calls := acc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "get_weather", calls[0].Name)

	// Joined fragments must be valid JSON for a complete call.
	var args map[string]string
	require.NoError(t, json.Unmarshal([]byte(calls[0].Arguments), &args))
	assert.Equal(t, "London", args["city"])
}

func TestAccumulatorKeepsIndexesSeparate(t *testing.T) {
	acc := NewToolCallAccumulator()
	acc.Add(1, "call_b", "tool_b", `{"b"`)
	acc.Add(0, "call_a", "tool_a", `{"a"`)
	acc.Add(1, "", "", `:2}`)
	acc.Add(0, "", "", `:1}`)

	calls := acc.Calls()
	require.Len(t, calls, 2)

	// Ordered by index, fragments never interleaved across indexes.
	assert.Equal(t, "call_a", calls[0].ID)
	assert.Equal(t, `{"a":1}`, calls[0].Arguments)
	assert.Equal(t, "call_b", calls[1].ID)
	assert.Equal(t, `{"b":2}`, calls[1].Arguments)
}

func TestAccumulatorEmpty(t *testing.T) {
	acc := NewToolCallAccumulator()
	assert.Empty(t, acc.Calls())
	assert.Equal(t, 0, acc.Len())
}
