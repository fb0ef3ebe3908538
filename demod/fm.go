package demod

import (
	"math"

	"github.com/kb9rlw/sdrcore/dsp"
	"github.com/kb9rlw/sdrcore/pcm"
)

// FM demodulates narrowband FM: 256 kS/s in, 8 kS/s PCM out, via a phase
// discriminator running at the 64 kS/s tuner-decimated rate.
type FM struct {
	tunerI, tunerQ *dsp.Decimator
	disc           *dsp.Discriminator
	postDemod      *dsp.Decimator
	audio          *dsp.Decimator
}

// NewFM builds a narrow-FM demodulator. kind selects the direct or
// differentiated discriminator variant; gain is the demodulator gain
// applied at the discriminator stage (FMOutputGain is the reference
// value).
func NewFM(kind dsp.DiscriminatorKind, gain float64) *FM {
	return &FM{
		tunerI:    dsp.NewDecimator(narrowTunerBank()),
		tunerQ:    dsp.NewDecimator(narrowTunerBank()),
		disc:      dsp.NewDiscriminator(kind, gain),
		postDemod: dsp.NewDecimator(narrowPostDemodBank()),
		audio:     dsp.NewDecimator(narrowAudioBank()),
	}
}

// Reset zeroes all filter and discriminator state.
func (f *FM) Reset() {
	f.tunerI.Reset()
	f.tunerQ.Reset()
	f.disc.Reset()
	f.postDemod.Reset()
	f.audio.Reset()
}

// AcceptBlock implements Demodulator.
func (f *FM) AcceptBlock(i, q []int16) *pcm.Block {
	var out []int16

	for k := range i {
		iv, iok := f.tunerI.PushAndMaybeEmit(i[k])
		qv, qok := f.tunerQ.PushAndMaybeEmit(q[k])
		if !iok || !qok {
			continue
		}

		y := f.disc.Step(float64(iv), float64(qv))
		sample := dsp.SaturateInt16(int32(math.Round(y)))

		pd, ok := f.postDemod.PushAndMaybeEmit(sample)
		if !ok {
			continue
		}
		ad, ok := f.audio.PushAndMaybeEmit(pd)
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
