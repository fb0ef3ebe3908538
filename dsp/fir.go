package dsp

// FIRState is a circular buffer of q int16 samples plus a head index. After
// Push(x), the buffer logically represents the last q inputs in order; the
// most recent sits just before head (at(0) returns it).
type FIRState struct {
	buf  []int16
	head int
}

// NewFIRState allocates a zeroed circular state of length q.
func NewFIRState(q int) *FIRState {
	return &FIRState{buf: make([]int16, q)}
}

// Reset zeroes the state and moves the head back to the start.
func (s *FIRState) Reset() {
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.head = 0
}

// Len reports q, the number of samples of history retained.
func (s *FIRState) Len() int {
	return len(s.buf)
}

// Push writes x into the circular buffer at the current head and advances
// the head, overwriting the oldest retained sample.
func (s *FIRState) Push(x int16) {
	s.buf[s.head] = x
	s.head++
	if s.head == len(s.buf) {
		s.head = 0
	}
}

// at returns the kth most recent sample (k=0 is the sample just pushed).
func (s *FIRState) at(k int) int16 {
	q := len(s.buf)
	idx := s.head - 1 - k
	idx %= q
	if idx < 0 {
		idx += q
	}
	return s.buf[idx]
}

// Convolve runs the fixed-point FIR MAC sequence: a Q15 x Q15 -> Q30
// multiply-accumulate over coeffs against the state's last len(coeffs)
// samples (coeffs[0] pairs with the most recently pushed sample), with
// per-MAC saturation to [-2^30, 2^30-1], a preloaded rounding constant of
// 0.5 in Q30, and a final arithmetic right shift of 15 bits narrowing back
// to Q15 with saturation to the int16 range.
func (s *FIRState) Convolve(coeffs []int16) int16 {
	acc := int64(Q30RoundingConstant)
	for k, h := range coeffs {
		acc += int64(h) * int64(s.at(k))
		acc = SaturateQ30(acc)
	}
	return SaturateInt16(int32(acc >> 15))
}
