package dsp

// IIRState is a direct-form-I IIR filter operating on float64 samples, used
// for the de-emphasis shelf applied after WBFM demodulation. It computes
//
//	y[n] = sum_k B[k]*x[n-k] - sum_k A[k]*y[n-k]
//
// with B indexed from 0 (b0 is the direct-feedthrough tap) and A indexed
// from 1 (a0 is implicitly 1 and not stored).
type IIRState struct {
	b []float64
	a []float64

	xHist []float64
	yHist []float64
}

// NewIIR builds an IIRState for numerator coefficients b and feedback
// coefficients a (a holds a1, a2, ... — not a0).
func NewIIR(b, a []float64) *IIRState {
	return &IIRState{
		b:     b,
		a:     a,
		xHist: make([]float64, len(b)),
		yHist: make([]float64, len(a)),
	}
}

// NewDeemphasis builds the single-pole de-emphasis shelf used by the WBFM
// demodulator.
func NewDeemphasis() *IIRState {
	return NewIIR(DeemphasisNumerator, []float64{DeemphasisDenominatorA1})
}

// Reset zeroes the input and output history.
func (f *IIRState) Reset() {
	for i := range f.xHist {
		f.xHist[i] = 0
	}
	for i := range f.yHist {
		f.yHist[i] = 0
	}
}

// Step advances the filter by one sample and returns y[n].
func (f *IIRState) Step(x float64) float64 {
	shiftUp(f.xHist, x)

	var y float64
	for k, bk := range f.b {
		y += bk * f.xHist[k]
	}
	for k, ak := range f.a {
		y -= ak * f.yHist[k]
	}

	shiftUp(f.yHist, y)
	return y
}

// shiftUp inserts v at index 0, discarding the oldest entry.
func shiftUp(hist []float64, v float64) {
	for i := len(hist) - 1; i > 0; i-- {
		hist[i] = hist[i-1]
	}
	if len(hist) > 0 {
		hist[0] = v
	}
}
