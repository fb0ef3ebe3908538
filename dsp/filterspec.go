package dsp

import "fmt"

// FilterSpec is a read-only record of filter coefficients and the
// decimation/interpolation factor they are meant to be used with. The taps
// count must be an integer multiple of factor so each polyphase sub-filter
// ends up with the same number of taps.
type FilterSpec struct {
	Taps   []float64
	Factor int
}

// FilterGeometryError reports a tap-count/factor mismatch at construction
// time. It is fatal: a malformed FilterSpec can never become valid at
// runtime, so callers should treat it as a process-start failure.
type FilterGeometryError struct {
	Taps   int
	Factor int
}

func (e *FilterGeometryError) Error() string {
	return fmt.Sprintf("dsp: filter tap count %d is not a multiple of factor %d", e.Taps, e.Factor)
}

// NewFilterSpec validates that len(taps) is a positive multiple of factor.
func NewFilterSpec(taps []float64, factor int) (FilterSpec, error) {
	if factor <= 0 || len(taps) == 0 || len(taps)%factor != 0 {
		return FilterSpec{}, &FilterGeometryError{Taps: len(taps), Factor: factor}
	}
	return FilterSpec{Taps: taps, Factor: factor}, nil
}

// SubfilterLength returns q = N/factor, the number of taps in each
// polyphase sub-filter.
func (s FilterSpec) SubfilterLength() int {
	return len(s.Taps) / s.Factor
}
