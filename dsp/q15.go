// Package dsp implements the fixed-point and floating-point building blocks
// shared by every demodulator: Q15 FIR filtering, polyphase decimation and
// interpolation, an IIR biquad for de-emphasis, and the FM phase
// discriminator. Filter coefficient design (window shaping, lowpass/Hilbert
// kernel generation) happens here too, offline from the hot path, the way
// the reference receiver treats filter design as a one-time setup step.
package dsp

import "math"

// Q15Scale is the fixed-point scale factor for the Q15 format: signed
// fractional values with 15 fractional bits, range [-1, 1-2^-15].
const Q15Scale = 1 << 15

// Q30RoundingConstant is 0.5 in Q30, preloaded into the FIR accumulator
// before the MAC sequence so that the final shift rounds rather than
// truncates.
const Q30RoundingConstant = 1 << 14

// Q30Max and Q30Min bound the FIR accumulator's saturation range.
const (
	Q30Max = 1<<30 - 1
	Q30Min = -(1 << 30)
)

// SaturateQ30 clamps an accumulator value to the signed Q30 range.
func SaturateQ30(acc int64) int64 {
	if acc > Q30Max {
		return Q30Max
	}
	if acc < Q30Min {
		return Q30Min
	}
	return acc
}

// SaturateInt16 clamps a value to the int16 range.
func SaturateInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// FloatToQ15 scales and rounds a float64 coefficient into Q15, saturating to
// the int16 range. Used once, at filter-construction time, to turn a
// FilterSpec's float taps into the fixed-point coefficients the FIR engine
// runs on.
func FloatToQ15(f float64) int16 {
	scaled := math.Round(f * Q15Scale)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}

// OffsetBinaryToInt16 converts an 8-bit offset-binary sample (as delivered
// by the tuner, signed = byte-128) to a Q15 int16 at full scale, matching
// the `(byte-128) << 8` convention used throughout the demodulators.
func OffsetBinaryToInt16(b byte) int16 {
	return int16(int(b)-128) << 8
}
