package event

// Kind tags the variants of the normalized stream event union.
type Kind string

const (
	// KindText carries a fragment of user-visible assistant text
	KindText Kind = "text"
	// KindThinking carries a fragment of reasoning/thinking content
	KindThinking Kind = "thinking"
	// KindToolCall carries a fragment of a streamed tool call
	KindToolCall Kind = "tool_call"
	// KindCompletion signals the end of generation with finish reason and usage
	KindCompletion Kind = "completion"
	// KindError is the single terminal event of a failed stream
	KindError Kind = "error"
)

// Usage holds token accounting, typically present only on the final record.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToolCallDelta is one fragment of a streamed tool call. The index ties
// fragments of the same call together; ID and Name usually arrive on the
// first fragment and Arguments accumulate as concatenated JSON text across
// subsequent fragments.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Event is the provider-agnostic tagged union produced by a stream session.
// Exactly the fields relevant to Kind are populated.
type Event struct {
	Kind Kind

	// Text is the content fragment for KindText and KindThinking
	Text string

	// ToolCall is set for KindToolCall
	ToolCall *ToolCallDelta

	// FinishReason and Usage are set for KindCompletion; Usage may be nil
	FinishReason string
	Usage        *Usage

	// Err is set for KindError
	Err error
}

// TextDelta builds a text fragment event.
func TextDelta(text string) Event {
	return Event{Kind: KindText, Text: text}
}

// ThinkingDelta builds a reasoning fragment event.
func ThinkingDelta(text string) Event {
	return Event{Kind: KindThinking, Text: text}
}

// ToolCall builds a tool-call fragment event.
func ToolCall(delta ToolCallDelta) Event {
	return Event{Kind: KindToolCall, ToolCall: &delta}
}

// Completion builds a completion event.
func Completion(finishReason string, usage *Usage) Event {
	return Event{Kind: KindCompletion, FinishReason: finishReason, Usage: usage}
}

// Error builds a terminal error event.
func Error(err error) Event {
	return Event{Kind: KindError, Err: err}
}
