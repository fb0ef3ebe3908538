package agc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/kb9rlw/sdrcore/squelch"
)

// TestIFGainDBNeverLeavesRail: regardless of algorithm, operating point,
// or magnitude sequence, the AGC's committed IF gain never strays outside
// [0, 46] dB.
func TestIFGainDBNeverLeavesRail(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		alg := Lowpass
		if rapid.Bool().Draw(t, "harris") {
			alg = Harris
		}
		operatingPoint := rapid.IntRange(-100, 0).Draw(t, "operatingPoint")
		deadband := rapid.IntRange(0, 10).Draw(t, "deadband")
		blanking := rapid.UintRange(0, 4).Draw(t, "blanking")
		alpha := rapid.Float64Range(0.01, 1.0).Draw(t, "alpha")
		initialGain := rapid.UintRange(0, 46).Draw(t, "initialGain")

		driver := &stubDriver{gain: initialGain}
		a := New(alg, operatingPoint, deadband, blanking, alpha, squelch.BuildDBFSTable(), initialGain)

		steps := rapid.IntRange(0, 64).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			magnitude := rapid.UintRange(0, 256).Draw(t, "magnitude")
			_, err := a.Step(magnitude, driver)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, a.IFGainDB(), uint(minGainDB))
			assert.LessOrEqual(t, a.IFGainDB(), uint(maxGainDB))
		}
	})
}

// TestDisabledAGCNeverCommits: when Enabled is false, Step is a no-op
// regardless of input — it never reports a commit and never touches the
// driver's gain.
func TestDisabledAGCNeverCommits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialGain := rapid.UintRange(0, 46).Draw(t, "initialGain")
		driver := &stubDriver{gain: initialGain}
		a := New(Lowpass, -30, 0, 0, 0.5, squelch.BuildDBFSTable(), initialGain)
		a.Enabled = false

		steps := rapid.IntRange(0, 32).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			magnitude := rapid.UintRange(0, 256).Draw(t, "magnitude")
			committed, err := a.Step(magnitude, driver)
			assert.NoError(t, err)
			assert.False(t, committed)
		}
		assert.Equal(t, initialGain, driver.gain)
	})
}

// TestDriftRecoveryAdoptsDriverGain: if something else changes the
// driver's gain behind the AGC's back, the next Step call adopts it
// without attempting an adjustment that cycle.
func TestDriftRecoveryAdoptsDriverGain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialGain := rapid.UintRange(0, 46).Draw(t, "initialGain")
		driftedGain := rapid.UintRange(0, 46).Draw(t, "driftedGain")

		driver := &stubDriver{gain: initialGain}
		a := New(Lowpass, -30, 0, 0, 0.5, squelch.BuildDBFSTable(), initialGain)

		driver.gain = driftedGain
		committed, err := a.Step(128, driver)
		assert.NoError(t, err)
		if driftedGain != initialGain {
			assert.False(t, committed)
			assert.Equal(t, driftedGain, a.IFGainDB())
		}
	})
}
