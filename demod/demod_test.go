package demod

import (
	"testing"

	"github.com/kb9rlw/sdrcore/dsp"
)

func silentPayload(n int) []byte {
	b := make([]byte, 2*n)
	for i := range b {
		b[i] = 128
	}
	return b
}

func carrierPayload(n int, iByte, qByte byte) []byte {
	b := make([]byte, 2*n)
	for k := 0; k < n; k++ {
		b[2*k] = iByte
		b[2*k+1] = qByte
	}
	return b
}

func TestFMSilentInputProducesNearZeroPCM(t *testing.T) {
	fm := NewFM(dsp.DiscriminatorDirect, FMOutputGain)
	i, q := SplitIQ(silentPayload(256000))

	block := fm.AcceptBlock(i, q)
	if block == nil {
		t.Fatal("expected PCM output for a full second of input")
	}
	for _, s := range block.Samples {
		if s < -1 || s > 1 {
			t.Fatalf("expected near-silent PCM, got sample %d", s)
		}
	}
}

func TestFMConstantCarrierHasZeroDeviation(t *testing.T) {
	fm := NewFM(dsp.DiscriminatorDirect, FMOutputGain)
	i, q := SplitIQ(carrierPayload(256000, 228, 128))

	block := fm.AcceptBlock(i, q)
	if block == nil {
		t.Fatal("expected PCM output")
	}

	// Skip the initial transient while the decimator pipelines fill.
	settle := 200
	if settle > len(block.Samples) {
		settle = len(block.Samples)
	}
	for _, s := range block.Samples[settle:] {
		if s != 0 {
			t.Fatalf("constant-phase carrier should have zero deviation, got %d", s)
		}
	}
}

func TestDecimatorOutputCountMatchesSpec(t *testing.T) {
	am := NewAM(1.0)
	i, q := SplitIQ(silentPayload(4 * 4 * 2 * 10))
	block := am.AcceptBlock(i, q)
	if block == nil {
		t.Fatal("expected output")
	}
	if len(block.Samples) != 10 {
		t.Fatalf("got %d PCM samples, want 10 (320 inputs through 4x4x2 decimation)", len(block.Samples))
	}
}

func TestWBFMAndSSBDoNotPanicOnSilence(t *testing.T) {
	wbfm := NewWBFM(dsp.NewAtan2Table(), FMOutputGain)
	i, q := SplitIQ(silentPayload(4096))
	_ = wbfm.AcceptBlock(i, q)

	ssb := NewSSB(SSBUpper, 1.0)
	_ = ssb.AcceptBlock(i, q)
}
