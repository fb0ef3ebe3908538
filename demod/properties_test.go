package demod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/kb9rlw/sdrcore/dsp"
)

// TestSplitIQProducesHalfLengthSlices: for any even-length payload, SplitIQ
// always returns I and Q slices of exactly half the payload length, with
// every sample decoded through OffsetBinaryToInt16.
func TestSplitIQProducesHalfLengthSlices(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pairs := rapid.IntRange(0, 64).Draw(t, "pairs")
		payload := make([]byte, 2*pairs)
		for k := range payload {
			payload[k] = rapid.Byte().Draw(t, "b")
		}

		i, q := SplitIQ(payload)
		assert.Len(t, i, pairs)
		assert.Len(t, q, pairs)
		for k := 0; k < pairs; k++ {
			assert.Equal(t, dsp.OffsetBinaryToInt16(payload[2*k]), i[k])
			assert.Equal(t, dsp.OffsetBinaryToInt16(payload[2*k+1]), q[k])
		}
	})
}

// TestOffsetBinaryToInt16IsMonotonic: decoding preserves byte ordering —
// a strictly greater offset-binary byte never decodes to a lesser int16.
func TestOffsetBinaryToInt16IsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Byte().Draw(t, "a")
		b := rapid.Byte().Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(t, dsp.OffsetBinaryToInt16(a), dsp.OffsetBinaryToInt16(b))
	})
}
