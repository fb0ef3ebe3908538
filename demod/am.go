package demod

import (
	"math"

	"github.com/kb9rlw/sdrcore/dsp"
	"github.com/kb9rlw/sdrcore/pcm"
)

// amDCBlockAlpha is the pole of the envelope DC-blocking filter
// (y_n = m_n - m_{n-1} + alpha*y_{n-1}).
const amDCBlockAlpha = 0.95

// AM demodulates an envelope-detected AM signal: 256 kS/s in, 8 kS/s PCM
// out, via tuner/post-demod/audio decimation stages.
type AM struct {
	tunerI, tunerQ *dsp.Decimator
	postDemod      *dsp.Decimator
	audio          *dsp.Decimator

	prevEnvelope float64
	prevOutput   float64

	Gain float64
}

// NewAM builds an AM demodulator with the reference narrowband decimator
// chain.
func NewAM(gain float64) *AM {
	return &AM{
		tunerI:    dsp.NewDecimator(narrowTunerBank()),
		tunerQ:    dsp.NewDecimator(narrowTunerBank()),
		postDemod: dsp.NewDecimator(narrowPostDemodBank()),
		audio:     dsp.NewDecimator(narrowAudioBank()),
		Gain:      gain,
	}
}

// Reset zeroes all filter and envelope-tracking state.
func (a *AM) Reset() {
	a.tunerI.Reset()
	a.tunerQ.Reset()
	a.postDemod.Reset()
	a.audio.Reset()
	a.prevEnvelope = 0
	a.prevOutput = 0
}

// AcceptBlock implements Demodulator.
func (a *AM) AcceptBlock(i, q []int16) *pcm.Block {
	var out []int16

	for k := range i {
		iv, iok := a.tunerI.PushAndMaybeEmit(i[k])
		qv, qok := a.tunerQ.PushAndMaybeEmit(q[k])
		if !iok || !qok {
			continue
		}

		envelope := math.Sqrt(float64(int32(iv)*int32(iv) + int32(qv)*int32(qv)))
		y := envelope - a.prevEnvelope + amDCBlockAlpha*a.prevOutput
		a.prevEnvelope = envelope
		a.prevOutput = y

		sample := dsp.SaturateInt16(int32(y))
		pd, ok := a.postDemod.PushAndMaybeEmit(sample)
		if !ok {
			continue
		}
		ad, ok := a.audio.PushAndMaybeEmit(pd)
		if !ok {
			continue
		}
		out = append(out, dsp.SaturateInt16(int32(float64(ad)*a.Gain)))
	}

	if len(out) == 0 {
		return nil
	}
	return &pcm.Block{Samples: out}
}
