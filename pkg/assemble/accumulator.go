package assemble

import (
	"sort"
	"strings"
)

// ToolCall is a fully accumulated tool call.
type ToolCall struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCallAccumulator gathers tool-call fragments by index, concatenating
// argument fragments in arrival order. For a completed call the joined
// arguments are the provider's original JSON text.
type ToolCallAccumulator struct {
	calls map[int]*toolCallState
	order []int
}

type toolCallState struct {
	id   string
	name string
	args strings.Builder
}

// NewToolCallAccumulator creates an empty accumulator.
func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{calls: make(map[int]*toolCallState)}
}

// Add consumes one fragment. The first fragment for an index usually
// carries the call ID and function name; later fragments append argument
// text.
func (a *ToolCallAccumulator) Add(index int, id, name, arguments string) {
	state, ok := a.calls[index]
	if !ok {
		state = &toolCallState{}
		a.calls[index] = state
		a.order = append(a.order, index)
	}
	if id != "" {
		state.id = id
	}
	if name != "" {
		state.name = name
	}
	state.args.WriteString(arguments)
}

// Calls returns the accumulated tool calls ordered by index.
func (a *ToolCallAccumulator) Calls() []ToolCall {
	indices := make([]int, len(a.order))
	copy(indices, a.order)
	sort.Ints(indices)

	calls := make([]ToolCall, 0, len(indices))
	for _, idx := range indices {
		state := a.calls[idx]
		calls = append(calls, ToolCall{
			Index:     idx,
			ID:        state.id,
			Name:      state.name,
			Arguments: state.args.String(),
		})
	}
	return calls
}

// Len returns the number of distinct tool calls seen so far.
func (a *ToolCallAccumulator) Len() int {
	return len(a.calls)
}
