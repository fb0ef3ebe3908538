package dsp

import "math"

// WindowType selects the shape function applied to a windowed-sinc filter
// kernel at design time.
type WindowType int

const (
	WindowTruncated WindowType = iota
	WindowCosine
	WindowHamming
	WindowBlackman
	WindowFlattop
)

// window returns the shaping multiplier for tap j of a size-N window.
func window(t WindowType, size, j int) float64 {
	n := float64(size)
	x := float64(j)
	center := 0.5 * (n - 1)

	switch t {
	case WindowCosine:
		return math.Cos((x - center) / n * math.Pi)
	case WindowHamming:
		return 0.53836 - 0.46164*math.Cos((x*2*math.Pi)/(n-1))
	case WindowBlackman:
		return 0.42659 - 0.49656*math.Cos((x*2*math.Pi)/(n-1)) +
			0.076849*math.Cos((x*4*math.Pi)/(n-1))
	case WindowFlattop:
		return 1.0 - 1.93*math.Cos((x*2*math.Pi)/(n-1)) +
			1.29*math.Cos((x*4*math.Pi)/(n-1)) -
			0.388*math.Cos((x*6*math.Pi)/(n-1)) +
			0.028*math.Cos((x*8*math.Pi)/(n-1))
	default:
		return 1.0
	}
}

// GenLowpass generates a windowed-sinc lowpass kernel of the given size,
// with cutoff fc expressed as a fraction of the sampling frequency,
// normalized for unity gain at DC.
func GenLowpass(fc float64, size int, wtype WindowType) []float64 {
	if size < 3 {
		panic("dsp: GenLowpass requires at least 3 taps")
	}

	taps := make([]float64, size)
	center := 0.5 * float64(size-1)

	for j := 0; j < size; j++ {
		var sinc float64
		d := float64(j) - center
		if d == 0 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*d) / (math.Pi * d)
		}
		taps[j] = sinc * window(wtype, size, j)
	}

	var g float64
	for _, v := range taps {
		g += v
	}
	for j := range taps {
		taps[j] /= g
	}
	return taps
}

// GenHilbert generates an odd-length windowed-sinc discrete Hilbert
// transformer (a +/-90 degree broadband phase shifter), paired with the
// matching pure-delay impulse for the in-phase arm. See DESIGN.md for why
// this is generated rather than read from a constant table: the SSB
// demodulator's original Hilbert-pair coefficients were not part of the
// retrieved source artifact for this spec.
//
// taps must be odd so the filter has integer group delay (taps-1)/2.
func GenHilbert(taps int, wtype WindowType) (quadrature, inPhaseDelay []float64) {
	if taps < 3 || taps%2 == 0 {
		panic("dsp: GenHilbert requires an odd tap count >= 3")
	}

	quadrature = make([]float64, taps)
	center := (taps - 1) / 2

	for n := 0; n < taps; n++ {
		k := n - center
		if k%2 == 0 {
			quadrature[n] = 0
			continue
		}
		quadrature[n] = 2.0 / (math.Pi * float64(k))
	}

	for n := range quadrature {
		quadrature[n] *= window(wtype, taps, n)
	}

	inPhaseDelay = make([]float64, taps)
	inPhaseDelay[center] = 1.0

	return quadrature, inPhaseDelay
}
