package dsp

// PolyphaseBank holds `factor` sub-filters of `q` Q15 coefficients each,
// derived once from a FilterSpec. Sub-filter i holds h(i), h(i+factor),
// h(i+2*factor), ... contiguously, so that the control structure driving
// the FIR engine never has to stride through the prototype filter itself.
type PolyphaseBank struct {
	Factor int
	Q      int
	// Sub is Factor slices of length Q, coefficients in Q15.
	Sub [][]int16
}

// NewPolyphaseBank builds a PolyphaseBank from a FilterSpec. spec.Taps must
// already satisfy len(Taps) % Factor == 0 (guaranteed by NewFilterSpec).
func NewPolyphaseBank(spec FilterSpec) PolyphaseBank {
	factor := spec.Factor
	q := spec.SubfilterLength()

	scaled := make([]int16, len(spec.Taps))
	for i, f := range spec.Taps {
		scaled[i] = FloatToQ15(f)
	}

	sub := make([][]int16, factor)
	for i := 0; i < factor; i++ {
		sub[i] = make([]int16, q)
		for j := 0; j < q; j++ {
			sub[i][j] = scaled[i+j*factor]
		}
	}

	return PolyphaseBank{Factor: factor, Q: q, Sub: sub}
}
