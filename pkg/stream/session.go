// Package stream drives the decode → frame → extract → normalize pipeline
// over a streaming response body and exposes the result as a pull-based
// iterator of normalized events.
package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tingly-dev/streambox/internal/constant"
	"github.com/tingly-dev/streambox/pkg/adaptor"
	"github.com/tingly-dev/streambox/pkg/event"
	"github.com/tingly-dev/streambox/pkg/sse"
)

// State is the lifecycle state of a session.
type State string

const (
	StateOpen      State = "open"
	StateStreaming State = "streaming"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// TransportError wraps a failure of the underlying byte source.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stream: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Session turns a streaming response body into an ordered, lazily-produced
// sequence of normalized events. It owns its decoder and framer, so
// concurrent sessions never share state. Iterate with Next/Current in the
// usual way:
//
//	sess := stream.NewSession(ctx, resp.Body, extractor)
//	defer sess.Close()
//	for sess.Next() {
//	    ev := sess.Current()
//	    ...
//	}
//	if err := sess.Err(); err != nil { ... }
//
// No byte is read from the body until the consumer pulls the next event, so
// backpressure falls out of the iteration itself.
type Session struct {
	ctx  context.Context
	body io.ReadCloser

	decoder   *sse.Decoder
	framer    *sse.Framer
	extractor adaptor.Extractor

	buf     []byte
	queue   []event.Event
	current event.Event
	state   State
	err     error
	closed  bool
	drained bool

	// finish reason and usage are merged across records and emitted as a
	// single Completion event when the stream logically ends
	finishReason string
	usage        *event.Usage
}

// NewSession creates a session over a streaming response body. The
// extractor selects the provider wire format once for the whole stream.
func NewSession(ctx context.Context, body io.ReadCloser, extractor adaptor.Extractor) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Session{
		ctx:       ctx,
		body:      body,
		decoder:   sse.NewDecoder(),
		framer:    sse.NewFramer(),
		extractor: extractor,
		buf:       make([]byte, constant.StreamReadBufferSize),
		state:     StateOpen,
	}
}

// NewSingleRecordSession creates a degenerate session over one buffered
// payload, used for providers that return a complete JSON body instead of
// an SSE stream. The same extractor and normalizer apply; no framing is
// involved.
func NewSingleRecordSession(payload string, extractor adaptor.Extractor) *Session {
	s := &Session{
		ctx:       context.Background(),
		extractor: extractor,
		state:     StateStreaming,
		drained:   true,
	}
	raw, err := extractor.Extract(payload)
	if err != nil {
		s.fail(err)
		return s
	}
	s.absorb(adaptor.Normalize(raw))
	s.finish()
	return s
}

// Next advances to the next event. It returns false when the sequence has
// ended; check Err afterwards to distinguish completion from failure.
func (s *Session) Next() bool {
	if s.state == StateOpen {
		s.state = StateStreaming
	}

	for {
		if len(s.queue) > 0 {
			s.current = s.queue[0]
			s.queue = s.queue[1:]
			return true
		}
		if s.state != StateStreaming {
			return false
		}
		if s.drained {
			// Queue is empty and no more bytes will arrive.
			s.finish()
			continue
		}
		s.pump()
	}
}

// Current returns the event produced by the last successful Next call.
func (s *Session) Current() event.Event {
	return s.current
}

// Err returns the terminal error of a failed session, nil otherwise.
func (s *Session) Err() error {
	return s.err
}

// State returns the session lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Close releases the underlying response body. It is safe to call Close
// before the sequence is exhausted; the transport read is aborted rather
// than buffered.
func (s *Session) Close() error {
	if s.closed || s.body == nil {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// pump reads one chunk from the body and runs it through the pipeline,
// appending any resulting events to the queue.
func (s *Session) pump() {
	if err := s.ctx.Err(); err != nil {
		s.drained = true
		s.fail(&TransportError{Err: err})
		return
	}

	n, readErr := s.body.Read(s.buf)
	if n > 0 {
		text, decErr := s.decoder.Feed(s.buf[:n])
		if decErr != nil {
			s.drained = true
			s.fail(decErr)
			return
		}
		for _, rec := range s.framer.Push(text) {
			s.consume(rec)
		}
		if s.framer.Done() {
			// Logical end-of-stream: ignore any bytes that follow.
			s.drained = true
			return
		}
	}

	if readErr == nil {
		return
	}
	s.drained = true
	if readErr != io.EOF {
		s.fail(&TransportError{Err: readErr})
		return
	}
	if err := s.decoder.Finish(); err != nil {
		s.fail(err)
		return
	}
	if rec, ok := s.framer.Flush(); ok {
		s.consume(rec)
	}
}

// consume extracts and normalizes one record. Parse errors are recorded for
// diagnostics and skipped; a single malformed line must not abort an
// otherwise healthy stream.
func (s *Session) consume(rec sse.Record) {
	raw, err := s.extractor.Extract(rec.Data)
	if err != nil {
		logrus.WithError(err).Debug("Skipping malformed stream record")
		return
	}
	s.absorb(adaptor.Normalize(raw))
}

// absorb queues normalized events, folding completion fragments (finish
// reason and usage may arrive on different records) into session state so
// that exactly one Completion event ends the sequence.
func (s *Session) absorb(events []event.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case event.KindCompletion:
			if ev.FinishReason != "" {
				s.finishReason = ev.FinishReason
			}
			if ev.Usage != nil {
				s.usage = mergeUsage(s.usage, ev.Usage)
			}
		case event.KindError:
			s.drained = true
			s.fail(ev.Err)
			return
		default:
			s.queue = append(s.queue, ev)
		}
	}
}

// finish ends the sequence cleanly, emitting the merged Completion event.
func (s *Session) finish() {
	if s.state != StateStreaming {
		return
	}
	s.state = StateCompleted
	s.queue = append(s.queue, event.Completion(s.finishReason, s.usage))
}

// fail ends the sequence with exactly one terminal Error event. Events
// already queued are still delivered first.
func (s *Session) fail(err error) {
	if s.state != StateStreaming && s.state != StateOpen {
		return
	}
	s.state = StateFailed
	s.err = err
	s.queue = append(s.queue, event.Error(err))
}

// mergeUsage overlays later usage counts onto earlier ones, keeping the
// non-zero parts of each.
func mergeUsage(base, next *event.Usage) *event.Usage {
	if base == nil {
		u := *next
		return &u
	}
	merged := *base
	if next.PromptTokens > 0 {
		merged.PromptTokens = next.PromptTokens
	}
	if next.CompletionTokens > 0 {
		merged.CompletionTokens = next.CompletionTokens
	}
	if next.TotalTokens > 0 {
		merged.TotalTokens = next.TotalTokens
	}
	if sum := merged.PromptTokens + merged.CompletionTokens; sum > merged.TotalTokens {
		merged.TotalTokens = sum
	}
	return &merged
}
