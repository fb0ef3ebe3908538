package demod

import (
	"math"

	"github.com/kb9rlw/sdrcore/dsp"
	"github.com/kb9rlw/sdrcore/pcm"
)

// WBFM demodulates wideband (broadcast) FM: the phase discriminator runs
// on the undecimated 256 kS/s stream using a precomputed atan2 lookup
// table, followed by 75us de-emphasis and a three-stage 4x4x2 decimation
// chain down to 8 kS/s PCM.
type WBFM struct {
	disc      *dsp.WBFMDiscriminator
	deemph    *dsp.IIRState
	stage1    *dsp.Decimator
	stage2    *dsp.Decimator
	audio     *dsp.Decimator
}

func wbfmStage1Bank() dsp.PolyphaseBank {
	return dsp.NewPolyphaseBank(mustSpec(dsp.WidePostDemodDecimator1Taps, 4))
}

func wbfmStage2Bank() dsp.PolyphaseBank {
	return dsp.NewPolyphaseBank(mustSpec(dsp.WidePostDemodDecimator2Taps, 4))
}

func wbfmAudioBank() dsp.PolyphaseBank {
	return dsp.NewPolyphaseBank(mustSpec(dsp.WideAudioDecimatorTaps, 2))
}

// NewWBFM builds a WBFM demodulator sharing the given atan2 table (tables
// are large; construct once and reuse across pipeline resets).
func NewWBFM(table *dsp.Atan2Table, gain float64) *WBFM {
	return &WBFM{
		disc:   dsp.NewWBFMDiscriminator(table, gain),
		deemph: dsp.NewDeemphasis(),
		stage1: dsp.NewDecimator(wbfmStage1Bank()),
		stage2: dsp.NewDecimator(wbfmStage2Bank()),
		audio:  dsp.NewDecimator(wbfmAudioBank()),
	}
}

// Reset zeroes all filter and discriminator state.
func (w *WBFM) Reset() {
	w.disc.Reset()
	w.deemph.Reset()
	w.stage1.Reset()
	w.stage2.Reset()
	w.audio.Reset()
}

// toOffsetByte recovers the original offset-binary byte from a value
// produced by dsp.OffsetBinaryToInt16.
func toOffsetByte(v int16) byte {
	return byte(int16(v>>8) + 128)
}

// AcceptBlock implements Demodulator.
func (w *WBFM) AcceptBlock(i, q []int16) *pcm.Block {
	var out []int16

	for k := range i {
		iByte := toOffsetByte(i[k])
		qByte := toOffsetByte(q[k])

		theta := w.disc.Step(iByte, qByte)
		deemphasized := w.deemph.Step(theta)
		sample := dsp.SaturateInt16(int32(math.Round(deemphasized)))

		s1, ok := w.stage1.PushAndMaybeEmit(sample)
		if !ok {
			continue
		}
		s2, ok := w.stage2.PushAndMaybeEmit(s1)
		if !ok {
			continue
		}
		ad, ok := w.audio.PushAndMaybeEmit(s2)
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
