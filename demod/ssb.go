package demod

import (
	"github.com/kb9rlw/sdrcore/dsp"
	"github.com/kb9rlw/sdrcore/pcm"
)

// SSBMode selects which sideband an SSB demodulator extracts.
type SSBMode int

const (
	SSBLower SSBMode = iota
	SSBUpper
)

func (m SSBMode) String() string {
	if m == SSBUpper {
		return "USB"
	}
	return "LSB"
}

// hilbertTaps is the default Hilbert-pair length: long enough for a clean
// +/-90 degree phase split across the audio band, short enough to keep
// group delay modest.
const hilbertTaps = 65

// SSB demodulates single-sideband via the phasing method: a Hilbert-pair
// FIR filter produces a phase-shifted quadrature arm and a matching
// pure-delay in-phase arm from the tuner-decimated I channel; LSB sums
// them, USB differences them.
type SSB struct {
	mode SSBMode
	gain float64

	tunerI *dsp.Decimator

	quadTaps  []float64
	delayTaps []float64
	hist      []float64
	histHead  int

	postDemod *dsp.Decimator
	audio     *dsp.Decimator
}

// NewSSB builds an SSB demodulator for the given sideband.
func NewSSB(mode SSBMode, gain float64) *SSB {
	quad, delay := dsp.GenHilbert(hilbertTaps, dsp.WindowHamming)
	return &SSB{
		mode:      mode,
		gain:      gain,
		tunerI:    dsp.NewDecimator(narrowTunerBank()),
		quadTaps:  quad,
		delayTaps: delay,
		hist:      make([]float64, hilbertTaps),
		postDemod: dsp.NewDecimator(narrowPostDemodBank()),
		audio:     dsp.NewDecimator(narrowAudioBank()),
	}
}

// Reset zeroes all filter state.
func (s *SSB) Reset() {
	s.tunerI.Reset()
	s.postDemod.Reset()
	s.audio.Reset()
	for i := range s.hist {
		s.hist[i] = 0
	}
	s.histHead = 0
}

func (s *SSB) push(x float64) {
	s.hist[s.histHead] = x
	s.histHead++
	if s.histHead == len(s.hist) {
		s.histHead = 0
	}
}

func (s *SSB) at(k int) float64 {
	n := len(s.hist)
	idx := s.histHead - 1 - k
	idx %= n
	if idx < 0 {
		idx += n
	}
	return s.hist[idx]
}

func (s *SSB) convolve(taps []float64) float64 {
	var acc float64
	for k, h := range taps {
		acc += h * s.at(k)
	}
	return acc
}

// AcceptBlock implements Demodulator. The Q channel is not used by the
// phasing method; only the I (real IF) channel feeds the Hilbert pair.
func (s *SSB) AcceptBlock(i, q []int16) *pcm.Block {
	var out []int16

	for k := range i {
		iv, ok := s.tunerI.PushAndMaybeEmit(i[k])
		if !ok {
			continue
		}

		s.push(float64(iv))
		inPhase := s.convolve(s.delayTaps)
		quadrature := s.convolve(s.quadTaps)

		var y float64
		if s.mode == SSBLower {
			y = inPhase + quadrature
		} else {
			y = inPhase - quadrature
		}
		sample := dsp.SaturateInt16(int32(s.gain * y))

		pd, ok := s.postDemod.PushAndMaybeEmit(sample)
		if !ok {
			continue
		}
		ad, ok := s.audio.PushAndMaybeEmit(pd)
		if !ok {
			continue
		}
		out = append(out, ad)
	}

	if len(out) == 0 {
		return nil
	}
	return &pcm.Block{Samples: out}
}
