package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestConvolveIdentityFilter exercises the FIR convolution identity: a
// filter with a single tap of 1.0 (Q15 full scale) at position zero and
// zeros elsewhere must reproduce its most recently pushed input (coeffs[0]
// pairs with the newest sample), for any input sequence.
func TestConvolveIdentityFilter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coeffs := make([]int16, rapid.IntRange(1, 32).Draw(t, "taps"))
		coeffs[0] = math.MaxInt16

		in := rapid.SliceOfN(rapid.Int16(), 1, 64).Draw(t, "in")

		s := NewFIRState(len(coeffs))
		var last int16
		for _, x := range in {
			s.Push(x)
			last = s.Convolve(coeffs)
		}
		// The identity tap picks off the most recently pushed sample; full
		// scale Q15 (MaxInt16) isn't exactly 1.0, so allow the one-LSB
		// rounding error inherent in the Q15 scale/shift.
		want := in[len(in)-1]
		assert.InDelta(t, int(want), int(last), 1)
	})
}

// TestConvolveZeroFilterIsZero: an all-zero coefficient set always produces
// a zero output, regardless of input or history.
func TestConvolveZeroFilterIsZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 32).Draw(t, "taps")
		coeffs := make([]int16, n)
		s := NewFIRState(n)

		pushes := rapid.IntRange(0, 64).Draw(t, "pushes")
		for i := 0; i < pushes; i++ {
			s.Push(rapid.Int16().Draw(t, "x"))
		}
		assert.Equal(t, int16(0), s.Convolve(coeffs))
	})
}

// TestSaturateQ30StaysInRange: SaturateQ30 never returns a value outside
// [Q30Min, Q30Max], for any accumulator value.
func TestSaturateQ30StaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		acc := rapid.Int64().Draw(t, "acc")
		got := SaturateQ30(acc)
		assert.LessOrEqual(t, got, int64(Q30Max))
		assert.GreaterOrEqual(t, got, int64(Q30Min))
		if acc >= Q30Min && acc <= Q30Max {
			assert.Equal(t, acc, got)
		}
	})
}

// TestSaturateInt16StaysInRange: SaturateInt16 never returns a value
// outside the int16 range, for any int32 input.
func TestSaturateInt16StaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int32().Draw(t, "v")
		got := SaturateInt16(v)
		assert.LessOrEqual(t, int32(got), int32(math.MaxInt16))
		assert.GreaterOrEqual(t, int32(got), int32(math.MinInt16))
	})
}

// TestDecimatorEmitsOnceEveryFactorInputs: a Decimator built from a factor-M
// bank emits exactly floor(n/M) outputs after n pushes, regardless of
// coefficient values.
func TestDecimatorEmitsOnceEveryFactorInputs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		factor := rapid.IntRange(1, 8).Draw(t, "factor")
		subTaps := rapid.IntRange(1, 6).Draw(t, "subTaps")

		taps := make([]float64, factor*subTaps)
		for i := range taps {
			taps[i] = rapid.Float64Range(-1, 1).Draw(t, "tap")
		}
		spec, err := NewFilterSpec(taps, factor)
		assert.NoError(t, err)
		bank := NewPolyphaseBank(spec)
		d := NewDecimator(bank)

		n := rapid.IntRange(0, 200).Draw(t, "n")
		emits := 0
		for i := 0; i < n; i++ {
			if _, ok := d.PushAndMaybeEmit(int16(i)); ok {
				emits++
			}
		}
		assert.Equal(t, n/factor, emits)
	})
}

// TestInterpolatorEmitsFactorOutputsPerInput: every Push on an Interpolator
// with factor L returns exactly L outputs.
func TestInterpolatorEmitsFactorOutputsPerInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		factor := rapid.IntRange(1, 8).Draw(t, "factor")
		subTaps := rapid.IntRange(1, 6).Draw(t, "subTaps")

		taps := make([]float64, factor*subTaps)
		for i := range taps {
			taps[i] = rapid.Float64Range(-1, 1).Draw(t, "tap")
		}
		spec, err := NewFilterSpec(taps, factor)
		assert.NoError(t, err)
		bank := NewPolyphaseBank(spec)
		ip := NewInterpolator(bank)

		x := rapid.Int16().Draw(t, "x")
		out := ip.Push(x)
		assert.Len(t, out, factor)
	})
}

// TestUnwrapStaysInRange: the discriminator's phase-delta unwrap always
// returns a value in (-pi, pi], for any input delta.
func TestUnwrapStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		delta := rapid.Float64Range(-1000, 1000).Draw(t, "delta")
		got := unwrap(delta)
		assert.LessOrEqual(t, got, math.Pi)
		assert.Greater(t, got, -math.Pi)
	})
}

// TestNewFilterSpecRejectsNonDivisibleGeometry: construction fails whenever
// the tap count isn't an exact multiple of the factor, and succeeds
// whenever it is.
func TestNewFilterSpecRejectsNonDivisibleGeometry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		factor := rapid.IntRange(1, 16).Draw(t, "factor")
		q := rapid.IntRange(1, 16).Draw(t, "q")
		extra := rapid.IntRange(0, factor-1).Draw(t, "extra")

		taps := make([]float64, factor*q+extra)
		_, err := NewFilterSpec(taps, factor)
		if extra == 0 {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	})
}
