package dsp

import "math"

// DiscriminatorKind selects the phase-difference estimator used by a
// Discriminator.
type DiscriminatorKind int

const (
	// DiscriminatorDirect computes theta_n = atan2(Q,I) and unwraps the
	// difference from the previous sample directly.
	DiscriminatorDirect DiscriminatorKind = iota
	// DiscriminatorDifferentiated runs a 7-tap FIR differentiator over the
	// unwrapped phase sequence, trading a little latency for better
	// weak-signal SNR.
	DiscriminatorDifferentiated
)

const atan2Epsilon = 1e-10

// Discriminator recovers instantaneous frequency from a complex baseband
// sample stream: phase angle, unwrapped difference from the previous
// sample, optional differentiation, and a configurable output gain.
type Discriminator struct {
	kind DiscriminatorKind
	gain float64

	havePrev      bool
	previousTheta float64

	diffHist []float64 // unwrapped phase history, most recent first
}

// NewDiscriminator builds a Discriminator. gain scales the unwrapped phase
// difference (or its derivative) into the demodulator's output units.
func NewDiscriminator(kind DiscriminatorKind, gain float64) *Discriminator {
	d := &Discriminator{kind: kind, gain: gain}
	if kind == DiscriminatorDifferentiated {
		d.diffHist = make([]float64, len(PhaseDifferentiatorTaps))
	}
	return d
}

// Reset clears the phase history, so the next sample is treated as the
// first of a new burst.
func (d *Discriminator) Reset() {
	d.havePrev = false
	d.previousTheta = 0
	for i := range d.diffHist {
		d.diffHist[i] = 0
	}
}

// unwrap maps a phase delta into (-pi, pi].
func unwrap(delta float64) float64 {
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta <= -math.Pi {
		delta += 2 * math.Pi
	}
	return delta
}

// Step advances the discriminator with one (I,Q) sample, already offset to
// signed int16 range, and returns the scaled output. The direct variant
// applies the atan2(0,0) kludge of nudging Q by atan2Epsilon.
func (d *Discriminator) Step(i, q float64) float64 {
	if d.kind == DiscriminatorDirect {
		q += atan2Epsilon
	}
	theta := math.Atan2(q, i)

	var delta float64
	if d.havePrev {
		delta = unwrap(theta - d.previousTheta)
	}
	d.havePrev = true
	d.previousTheta = theta

	if d.kind == DiscriminatorDirect {
		return d.gain * delta
	}

	// diffHist[0] holds the previous unwrapped phase; extend it by delta.
	shiftUp(d.diffHist, d.diffHist[0]+delta)
	var acc float64
	for k, h := range PhaseDifferentiatorTaps {
		acc += h * d.diffHist[k]
	}
	return d.gain * acc
}

// Atan2Table is a 256x256 precomputed atan2 lookup keyed by the 8-bit
// unsigned representations of (I,Q), avoiding per-sample atan2 calls at the
// full 256 kS/s wideband-FM rate.
type Atan2Table [256][256]float64

// NewAtan2Table populates the table as atan2((y-128)+eps, x-128).
func NewAtan2Table() *Atan2Table {
	var t Atan2Table
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			yArg := float64(y-128) + atan2Epsilon
			xArg := float64(x - 128)
			t[y][x] = math.Atan2(yArg, xArg)
		}
	}
	return &t
}

// Lookup returns the table entry for offset-binary bytes i, q.
func (t *Atan2Table) Lookup(i, q byte) float64 {
	return t[q][i]
}

// WBFMDiscriminator is the wideband-FM phase discriminator: it runs on
// undecimated 256 kS/s offset-binary samples using the atan2 lookup table
// rather than a floating-point atan2 call.
type WBFMDiscriminator struct {
	table *Atan2Table
	gain  float64

	havePrev      bool
	previousTheta float64
}

// NewWBFMDiscriminator builds a WBFMDiscriminator sharing the given table
// (tables are large and reusable across pipeline resets).
func NewWBFMDiscriminator(table *Atan2Table, gain float64) *WBFMDiscriminator {
	return &WBFMDiscriminator{table: table, gain: gain}
}

// Reset clears the phase history.
func (d *WBFMDiscriminator) Reset() {
	d.havePrev = false
	d.previousTheta = 0
}

// Step advances the discriminator with one offset-binary (I,Q) byte pair.
func (d *WBFMDiscriminator) Step(i, q byte) float64 {
	theta := d.table.Lookup(i, q)

	var delta float64
	if d.havePrev {
		delta = unwrap(theta - d.previousTheta)
	}
	d.havePrev = true
	d.previousTheta = theta

	return d.gain * delta
}
