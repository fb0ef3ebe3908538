package dsp

// Decimator is a polyphase FIR decimator with integer factor M: it consumes
// samples one at a time and produces one filtered output every M inputs.
//
// Each of the M polyphase sub-filters keeps its own q-tap delay line of
// decimated-rate history (q = N/M), fed by the commutator in round-robin
// phase order: line p receives inputs p, p+M, p+2M, ... counted from the
// last Reset. At the end of each group of M inputs the M partial
// convolutions are summed into a single Q30 accumulator (one preloaded
// rounding constant, per-term saturation, one final shift). Sub-filter p
// runs against line p, so tap h(p+kM) multiplies the input that arrived
// M-1-p+kM inputs before the emitting one: h(M-1) meets the newest input
// and h(0) the oldest of the group. Within each group of M taps this is
// the reverse of a direct N-tap convolution, which pairs h(0) with the
// newest input.
type Decimator struct {
	bank  PolyphaseBank
	lines []*FIRState
	n     int // raw inputs consumed since the last Reset
}

// NewDecimator builds a Decimator from a PolyphaseBank.
func NewDecimator(bank PolyphaseBank) *Decimator {
	lines := make([]*FIRState, bank.Factor)
	for i := range lines {
		lines[i] = NewFIRState(bank.Q)
	}
	return &Decimator{bank: bank, lines: lines}
}

// Reset zeroes all state and restarts the phase counter, so the next
// emission again falls on input M-1.
func (d *Decimator) Reset() {
	for _, l := range d.lines {
		l.Reset()
	}
	d.n = 0
}

// Factor returns M.
func (d *Decimator) Factor() int { return d.bank.Factor }

// PushAndMaybeEmit appends x to the decimator's state and reports whether a
// filtered sample was produced. Emissions are counted relative to the last
// Reset; the first occurs on input M-1 (0-indexed).
func (d *Decimator) PushAndMaybeEmit(x int16) (int16, bool) {
	p := d.n % d.bank.Factor
	d.lines[p].Push(x)
	d.n++

	if p != d.bank.Factor-1 {
		return 0, false
	}

	acc := int64(Q30RoundingConstant)
	for phase := 0; phase < d.bank.Factor; phase++ {
		line := d.lines[phase]
		for k, h := range d.bank.Sub[phase] {
			acc += int64(h) * int64(line.at(k))
			acc = SaturateQ30(acc)
		}
	}
	return SaturateInt16(int32(acc >> 15)), true
}
