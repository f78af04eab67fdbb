package sse

import "strings"

const (
	// dataPrefix marks a payload line of the SSE wire format
	dataPrefix = "data:"

	// doneSentinel is the reserved payload value that ends the logical stream
	doneSentinel = "[DONE]"
)

// Record is one payload line of the streaming wire protocol, with the
// "data:" marker already stripped.
type Record struct {
	Data string
}

// Framer re-assembles decoded text into complete records regardless of how
// the underlying byte chunks were split. Non-payload lines (blank lines,
// "event:"/"id:" fields, ": " comments used as keep-alives) are discarded.
// A Framer belongs to a single stream and is not safe for concurrent use.
type Framer struct {
	pending string
	done    bool
}

// NewFramer creates a new record framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Push consumes decoded text and returns every complete payload record it
// contains. The suffix after the last newline is retained and prepended to
// the next Push. Once the [DONE] sentinel is seen, no further records are
// emitted even if more text arrives.
func (f *Framer) Push(text string) []Record {
	if f.done || text == "" {
		return nil
	}

	buf := f.pending + text
	var records []Record
	for {
		idx := strings.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		line := buf[:idx]
		buf = buf[idx+1:]

		rec, ok := f.accept(line)
		if f.done {
			f.pending = ""
			return records
		}
		if ok {
			records = append(records, rec)
		}
	}
	f.pending = buf
	return records
}

// Flush terminates the framer at physical end-of-stream. If a partial line
// is pending it is returned as a final, possibly malformed record.
func (f *Framer) Flush() (Record, bool) {
	if f.done || f.pending == "" {
		f.pending = ""
		return Record{}, false
	}
	line := f.pending
	f.pending = ""
	rec, ok := f.accept(line)
	if f.done {
		return Record{}, false
	}
	return rec, ok
}

// Done reports whether the logical end-of-stream sentinel has been seen.
func (f *Framer) Done() bool {
	return f.done
}

// accept classifies one complete line, returning a payload record when the
// line carries one. Seeing the sentinel latches the done flag.
func (f *Framer) accept(line string) (Record, bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" || !strings.HasPrefix(line, dataPrefix) {
		// Blank separator, comment, or an event/id field line.
		return Record{}, false
	}
	payload := strings.TrimPrefix(line, dataPrefix)
	payload = strings.TrimPrefix(payload, " ")
	if strings.TrimSpace(payload) == doneSentinel {
		f.done = true
		return Record{}, false
	}
	return Record{Data: payload}, true
}
