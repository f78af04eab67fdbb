package sse

import (
	"fmt"
	"unicode/utf8"
)

// ErrTruncatedEncoding is returned by Finish when the stream ends in the
// middle of a multi-byte UTF-8 sequence.
var ErrTruncatedEncoding = fmt.Errorf("sse: stream ended inside a multi-byte UTF-8 sequence")

// InvalidSequenceError reports a byte that can never begin or continue a
// valid UTF-8 sequence. It is fatal: truncated tails are tolerated between
// chunks, genuinely corrupt bytes are not.
type InvalidSequenceError struct {
	Byte   byte
	Offset int
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("sse: invalid UTF-8 byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// Decoder incrementally decodes raw bytes into text, holding back any
// trailing partial multi-byte sequence until the next chunk completes it.
// A Decoder belongs to a single stream and is not safe for concurrent use.
type Decoder struct {
	carry [utf8.UTFMax - 1]byte
	n     int
}

// NewDecoder creates a new incremental UTF-8 decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes one chunk of raw bytes and returns the longest decodable
// prefix as text. Bytes that form an incomplete trailing sequence are
// carried over to the next Feed call and never appear in the output.
func (d *Decoder) Feed(chunk []byte) (string, error) {
	if len(chunk) == 0 {
		return "", nil
	}

	buf := chunk
	if d.n > 0 {
		buf = make([]byte, 0, d.n+len(chunk))
		buf = append(buf, d.carry[:d.n]...)
		buf = append(buf, chunk...)
		d.n = 0
	}

	i := 0
	for i < len(buf) {
		b := buf[i]
		if b < utf8.RuneSelf {
			i++
			continue
		}

		size := seqLen(b)
		if size == 0 {
			// Continuation byte with no lead, or a byte outside UTF-8 entirely.
			return "", &InvalidSequenceError{Byte: b, Offset: i}
		}

		if i+size > len(buf) {
			// Sequence runs past the chunk. Only a valid partial sequence is
			// carried; a corrupt byte after the lead is reported now, not
			// mistaken for a chunk boundary.
			for j := i + 1; j < len(buf); j++ {
				if buf[j]&0xC0 != 0x80 {
					return "", &InvalidSequenceError{Byte: buf[j], Offset: j}
				}
			}
			d.n = copy(d.carry[:], buf[i:])
			buf = buf[:i]
			break
		}

		// DecodeRune also reports U+FFFD for the valid encoding of U+FFFD
		// itself; only a one-byte result means the input is corrupt.
		if r, n := utf8.DecodeRune(buf[i : i+size]); r == utf8.RuneError && n == 1 {
			return "", &InvalidSequenceError{Byte: b, Offset: i}
		}
		i += size
	}

	return string(buf), nil
}

// Finish reports whether the stream ended cleanly. A non-empty carry-over
// means the final character was cut off, which surfaces as
// ErrTruncatedEncoding instead of being silently dropped.
func (d *Decoder) Finish() error {
	if d.n > 0 {
		d.n = 0
		return ErrTruncatedEncoding
	}
	return nil
}

// Pending returns the number of carried-over bytes awaiting completion.
func (d *Decoder) Pending() int {
	return d.n
}

// seqLen returns the declared length of a UTF-8 sequence starting with the
// given lead byte, or 0 if the byte cannot start a sequence.
func seqLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}
