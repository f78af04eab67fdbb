package sse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderASCIIPassthrough(t *testing.T) {
	d := NewDecoder()

	text, err := d.Feed([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	require.NoError(t, d.Finish())
}

func TestDecoderEmptyChunk(t *testing.T) {
	d := NewDecoder()

	text, err := d.Feed(nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)

	text, err = d.Feed([]byte{})
	require.NoError(t, err)
	assert.Equal(t, "", text)
	require.NoError(t, d.Finish())
}

func TestDecoderSplitMultiByteCharacter(t *testing.T) {
	// Scenario: "Hello, 你" split one byte into the 3-byte character.
	raw := []byte("你")
	require.Len(t, raw, 3)

	d := NewDecoder()

	text, err := d.Feed(append([]byte("Hello, "), raw[0]))
	require.NoError(t, err)
	assert.Equal(t, "Hello, ", text)
	assert.Equal(t, 1, d.Pending())

	text, err = d.Feed(append(raw[1:3:3], []byte("好\n")...))
	require.NoError(t, err)
	assert.Equal(t, "你好\n", text)
	assert.Equal(t, 0, d.Pending())

	require.NoError(t, d.Finish())
}

func TestDecoderEveryChunkBoundary(t *testing.T) {
	// Any split of a valid UTF-8 byte sequence must reconstruct the
	// original text exactly.
	original := "Hello, 你好 🙂 café Ω\n"
	raw := []byte(original)

	for split := 0; split <= len(raw); split++ {
		d := NewDecoder()

		first, err := d.Feed(raw[:split])
		require.NoError(t, err, "split at %d", split)
		second, err := d.Feed(raw[split:])
		require.NoError(t, err, "split at %d", split)
		require.NoError(t, d.Finish(), "split at %d", split)

		assert.Equal(t, original, first+second, "split at %d", split)
	}
}

func TestDecoderByteAtATime(t *testing.T) {
	original := "naïve 🚀 ﷺ end"
	raw := []byte(original)

	d := NewDecoder()
	var out string
	for i := range raw {
		text, err := d.Feed(raw[i : i+1])
		require.NoError(t, err, "byte %d", i)
		out += text
	}
	require.NoError(t, d.Finish())
	assert.Equal(t, original, out)
}

func TestDecoderTruncatedEncodingAtFinish(t *testing.T) {
	raw := []byte("🙂")
	require.Len(t, raw, 4)

	d := NewDecoder()
	text, err := d.Feed(raw[:2])
	require.NoError(t, err)
	assert.Equal(t, "", text)

	err = d.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedEncoding)
}

func TestDecoderInvalidLeadByte(t *testing.T) {
	// A lone continuation byte can never start a sequence.
	d := NewDecoder()
	_, err := d.Feed([]byte{0x80, 0x81})
	require.Error(t, err)

	var invalid *InvalidSequenceError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, byte(0x80), invalid.Byte)
	assert.Equal(t, 0, invalid.Offset)
}

func TestDecoderInvalidContinuation(t *testing.T) {
	// Valid 2-byte lead followed by an ASCII byte is corrupt input, not a
	// chunk boundary.
	d := NewDecoder()
	_, err := d.Feed([]byte{0xC3, 0x41})
	require.Error(t, err)

	var invalid *InvalidSequenceError
	require.True(t, errors.As(err, &invalid))
}

func TestDecoderInvalidByteAfterCarryOver(t *testing.T) {
	d := NewDecoder()

	// Carry over a 3-byte lead, then complete it with garbage.
	text, err := d.Feed([]byte{0xE4})
	require.NoError(t, err)
	assert.Equal(t, "", text)

	_, err = d.Feed([]byte{0xFF, 0xFF})
	require.Error(t, err)

	var invalid *InvalidSequenceError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, byte(0xFF), invalid.Byte)
}

func TestDecoderCorruptTailNeverCarried(t *testing.T) {
	// A corrupt byte inside an otherwise truncated sequence is corrupt
	// input, not a partial character awaiting the next chunk.
	d := NewDecoder()
	_, err := d.Feed([]byte{0xE4, 0xFF})
	require.Error(t, err)

	var invalid *InvalidSequenceError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, byte(0xFF), invalid.Byte)
	assert.Equal(t, 1, invalid.Offset)

	// Finish must not reinterpret the failure as a truncated encoding.
	assert.Equal(t, 0, d.Pending())
}

func TestDecoderReplacementCharacterRoundTrips(t *testing.T) {
	// U+FFFD has a perfectly valid 3-byte encoding and providers do emit
	// it; it must decode like any other character.
	original := "a�b"
	raw := []byte(original)
	require.Len(t, raw, 5)

	for split := 0; split <= len(raw); split++ {
		d := NewDecoder()

		first, err := d.Feed(raw[:split])
		require.NoError(t, err, "split at %d", split)
		second, err := d.Feed(raw[split:])
		require.NoError(t, err, "split at %d", split)
		require.NoError(t, d.Finish(), "split at %d", split)

		assert.Equal(t, original, first+second, "split at %d", split)
	}
}

func TestDecoderCarryOverAcrossThreeChunks(t *testing.T) {
	raw := []byte("𝄞") // 4 bytes
	require.Len(t, raw, 4)

	d := NewDecoder()
	var out string
	for _, chunk := range [][]byte{raw[:1], raw[1:3], raw[3:]} {
		text, err := d.Feed(chunk)
		require.NoError(t, err)
		out += text
	}
	require.NoError(t, d.Finish())
	assert.Equal(t, "𝄞", out)
}
