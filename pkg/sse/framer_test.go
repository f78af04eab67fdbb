package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramerSingleRecord(t *testing.T) {
	f := NewFramer()

	records := f.Push("data: {\"a\":1}\n")
	require.Len(t, records, 1)
	assert.Equal(t, `{"a":1}`, records[0].Data)
}

func TestFramerRecordSplitAcrossPushes(t *testing.T) {
	f := NewFramer()

	records := f.Push("data: {\"content\":")
	assert.Empty(t, records)

	records = f.Push("\"Hi\"}\ndata: {\"b\":2}\n")
	require.Len(t, records, 2)
	assert.Equal(t, `{"content":"Hi"}`, records[0].Data)
	assert.Equal(t, `{"b":2}`, records[1].Data)
}

func TestFramerArbitraryChunking(t *testing.T) {
	// N records must come out in order as exactly N records regardless of
	// where the text is split.
	wire := "data: one\n\ndata: two\nevent: message\ndata: three\n"
	want := []string{"one", "two", "three"}

	for split := 0; split <= len(wire); split++ {
		f := NewFramer()
		var got []string
		for _, rec := range f.Push(wire[:split]) {
			got = append(got, rec.Data)
		}
		for _, rec := range f.Push(wire[split:]) {
			got = append(got, rec.Data)
		}
		if rec, ok := f.Flush(); ok {
			got = append(got, rec.Data)
		}
		assert.Equal(t, want, got, "split at %d", split)
	}
}

func TestFramerDiscardsNonPayloadLines(t *testing.T) {
	f := NewFramer()

	records := f.Push("event: content_block_delta\nid: 42\n: keep-alive\n\ndata: {\"x\":1}\n")
	require.Len(t, records, 1)
	assert.Equal(t, `{"x":1}`, records[0].Data)
}

func TestFramerCRLFLines(t *testing.T) {
	f := NewFramer()

	records := f.Push("data: {\"a\":1}\r\ndata: {\"b\":2}\r\n")
	require.Len(t, records, 2)
	assert.Equal(t, `{"a":1}`, records[0].Data)
	assert.Equal(t, `{"b":2}`, records[1].Data)
}

func TestFramerNoSpaceAfterMarker(t *testing.T) {
	f := NewFramer()

	records := f.Push("data:{\"a\":1}\n")
	require.Len(t, records, 1)
	assert.Equal(t, `{"a":1}`, records[0].Data)
}

func TestFramerSentinelStopsEmission(t *testing.T) {
	f := NewFramer()

	// Payload after the sentinel in the same push must be dropped.
	records := f.Push("data: {\"a\":1}\ndata: [DONE]\ndata: {\"b\":2}\n")
	require.Len(t, records, 1)
	assert.Equal(t, `{"a":1}`, records[0].Data)
	assert.True(t, f.Done())

	// Later pushes are ignored entirely.
	assert.Empty(t, f.Push("data: {\"c\":3}\n"))

	_, ok := f.Flush()
	assert.False(t, ok)
}

func TestFramerFlushPendingPartialLine(t *testing.T) {
	f := NewFramer()

	assert.Empty(t, f.Push("data: {\"unterminated\":true}"))

	rec, ok := f.Flush()
	require.True(t, ok)
	assert.Equal(t, `{"unterminated":true}`, rec.Data)

	// Flush is idempotent once drained.
	_, ok = f.Flush()
	assert.False(t, ok)
}

func TestFramerFlushEmptyPending(t *testing.T) {
	f := NewFramer()
	f.Push("data: {\"a\":1}\n")

	_, ok := f.Flush()
	assert.False(t, ok)
}

func TestFramerSentinelAsFinalFlushedLine(t *testing.T) {
	f := NewFramer()

	assert.Empty(t, f.Push("data: [DONE]"))

	_, ok := f.Flush()
	assert.False(t, ok)
	assert.True(t, f.Done())
}

func TestFramerBlankAndWhitespaceRecords(t *testing.T) {
	f := NewFramer()

	records := f.Push("\n\n\ndata: {\"a\":1}\n\n")
	require.Len(t, records, 1)
}
