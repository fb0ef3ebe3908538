// Package demod composes the dsp package's filter primitives into the
// AM, narrow-FM, wideband-FM and SSB demodulator chains. Each demodulator
// is a tagged-sum member reachable through the shared Demodulator
// interface; composition is plain struct aggregation, never inheritance.
package demod

import (
	"github.com/kb9rlw/sdrcore/dsp"
	"github.com/kb9rlw/sdrcore/pcm"
	"github.com/kb9rlw/sdrcore/queue"
)

// Mode selects which demodulator chain the pipeline runs.
type Mode int

const (
	None Mode = iota
	AM
	FM
	WBFM
	LSB
	USB
)

func (m Mode) String() string {
	switch m {
	case AM:
		return "AM"
	case FM:
		return "FM"
	case WBFM:
		return "WBFM"
	case LSB:
		return "LSB"
	case USB:
		return "USB"
	default:
		return "none"
	}
}

// Demodulator is the shared capability every chain implements.
type Demodulator interface {
	// AcceptBlock runs the chain over one I/Q block's worth of samples and
	// returns a PCM block, or nil if the chain produced no output samples
	// this call (e.g. it is still filling its decimator pipeline).
	AcceptBlock(i, q []int16) *pcm.Block
	// Reset zeroes all filter/discriminator state.
	Reset()
}

// SplitIQ decodes an I/Q block's offset-binary payload into signed int16 I
// and Q sample slices.
func SplitIQ(payload []byte) (i, q []int16) {
	n := len(payload) / 2
	i = make([]int16, n)
	q = make([]int16, n)
	for k := 0; k < n; k++ {
		i[k] = dsp.OffsetBinaryToInt16(payload[2*k])
		q[k] = dsp.OffsetBinaryToInt16(payload[2*k+1])
	}
	return i, q
}

// AcceptIQBlock is a convenience wrapper splitting a queue.IqBlock before
// handing its samples to a Demodulator.
func AcceptIQBlock(d Demodulator, block queue.IqBlock) *pcm.Block {
	i, q := SplitIQ(block.Payload)
	return d.AcceptBlock(i, q)
}

// mustSpec builds the FilterSpecs behind the narrow*Bank helpers (shared
// by the AM, FM and SSB chains) and the WBFM stage banks. Panics on a
// FilterGeometry error are appropriate here: these coefficient tables are
// fixed compile-time constants, so a mismatch can only be a programming
// error, never a runtime condition.
func mustSpec(taps []float64, factor int) dsp.FilterSpec {
	spec, err := dsp.NewFilterSpec(taps, factor)
	if err != nil {
		panic(err)
	}
	return spec
}

func narrowTunerBank() dsp.PolyphaseBank {
	return dsp.NewPolyphaseBank(mustSpec(dsp.NarrowTunerDecimatorTaps, 4))
}

func narrowPostDemodBank() dsp.PolyphaseBank {
	return dsp.NewPolyphaseBank(mustSpec(dsp.NarrowPostDemodDecimatorTaps, 4))
}

func narrowAudioBank() dsp.PolyphaseBank {
	return dsp.NewPolyphaseBank(mustSpec(dsp.NarrowAudioDecimatorTaps, 2))
}

// FMOutputGain is the default narrow-FM discriminator gain at the 64 kS/s
// stage, 256000/(8*2*pi). At that stage a frequency offset of f Hz gives a
// discriminator output of f/2, so full narrowband deviation (15 kHz) comes
// out at about +/-7500.
const FMOutputGain = 256000.0 / (8 * 2 * 3.141592653589793)
