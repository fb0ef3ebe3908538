package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestRejectedSetFrequencyNeverMutates: any frequency outside the valid
// range is rejected and leaves the snapshot unchanged, for any starting
// frequency and any out-of-range candidate.
func TestRejectedSetFrequencyNeverMutates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New()
		valid := rapid.Uint64Range(100_000, 1_700_000_000).Draw(t, "valid")
		assert.NoError(t, c.SetFrequency(valid))

		below := rapid.Uint64Range(0, 99_999).Draw(t, "below")
		err := c.SetFrequency(below)
		assert.Error(t, err)
		assert.Equal(t, valid, c.Snapshot().RxFrequencyHz)
	})
}

// TestRejectedSetSquelchThresholdNeverMutates mirrors the above for the
// squelch threshold setter's [-200, 0] range.
func TestRejectedSetSquelchThresholdNeverMutates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New()
		valid := rapid.IntRange(-200, 0).Draw(t, "valid")
		assert.NoError(t, c.SetSquelchThreshold(valid))

		outOfRange := rapid.IntRange(1, 1000).Draw(t, "outOfRange")
		if rapid.Bool().Draw(t, "negate") {
			outOfRange = -201 - outOfRange
		}
		err := c.SetSquelchThreshold(outOfRange)
		assert.Error(t, err)
		assert.Equal(t, valid, c.Snapshot().SquelchDBFS)
	})
}

// TestRejectedSetIFGainNeverMutates mirrors the above for the IF gain
// setter's [0, 46] range.
func TestRejectedSetIFGainNeverMutates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New()
		valid := rapid.Uint32Range(0, 46).Draw(t, "valid")
		assert.NoError(t, c.SetIFGain(valid))

		outOfRange := rapid.Uint32Range(47, 1000).Draw(t, "outOfRange")
		err := c.SetIFGain(outOfRange)
		assert.Error(t, err)
		assert.Equal(t, valid, c.Snapshot().RxIFGainDB)
	})
}
