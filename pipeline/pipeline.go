// Package pipeline composes the squelch, AGC and demodulator stages into
// the single DSP consumer task described by the concurrency model: one
// goroutine, single-writer over all filter state, driven by blocking
// dequeues off the producer's message queue.
package pipeline

import (
	"context"
	"time"

	"github.com/kb9rlw/sdrcore/agc"
	"github.com/kb9rlw/sdrcore/control"
	"github.com/kb9rlw/sdrcore/demod"
	"github.com/kb9rlw/sdrcore/diag"
	"github.com/kb9rlw/sdrcore/dsp"
	"github.com/kb9rlw/sdrcore/pcm"
	"github.com/kb9rlw/sdrcore/queue"
	"github.com/kb9rlw/sdrcore/squelch"
	"github.com/kb9rlw/sdrcore/tuner"
)

// dequeueTimeout bounds how long the consumer's blocking dequeue waits
// before looping to re-check for cancellation, per the reference
// consumer's <=1s bound.
const dequeueTimeout = time.Second

// Config wires a Pipeline to its collaborators. Driver, Sink and Diag may
// be left nil in Diag's case only; Driver and Sink are required.
// SquelchObserver, if set, is called with every squelch event the
// tracker produces (e.g. to drive a front-panel GPIO indicator); it runs
// on the DSP task and must not block.
type Config struct {
	Queue           *queue.Queue
	Driver          tuner.Driver
	Sink            pcm.Sink
	Diag            diag.Sink
	SquelchObserver func(squelch.Event)
}

// Pipeline is the sole mutator of all filter/demod state (squelch
// tracker, AGC and the active demodulator chain). It owns accept_block,
// set_demod_mode, set_frequency, set_sample_rate and reset exactly as
// specified for the consumer/DSP task: the control task only ever writes
// atomically-published configuration cells that Pipeline reads at the
// top of each block.
type Pipeline struct {
	q      *queue.Queue
	driver tuner.Driver
	sink   pcm.Sink
	diagS  diag.Sink
	ctl    *control.Interface

	squelchTracker *squelch.Tracker
	gainControl    *agc.AGC
	activeMode     demod.Mode
	active         demod.Demodulator

	wbfmTable *dsp.Atan2Table // shared across WBFM (re)constructions; expensive to build

	lastSampleRateHz uint32
	squelchObserver  func(squelch.Event)
}

// New builds a Pipeline around cfg and ctl. It constructs the squelch
// tracker and AGC from ctl's current snapshot and leaves the active
// demodulator unset (demod.None) until the control surface selects one.
func New(cfg Config, ctl *control.Interface) *Pipeline {
	params := ctl.Snapshot()
	dbfsTable := squelch.BuildDBFSTable()

	p := &Pipeline{
		q:                cfg.Queue,
		driver:           cfg.Driver,
		sink:             cfg.Sink,
		diagS:            cfg.Diag,
		ctl:              ctl,
		squelchTracker:   squelch.NewTracker(params.SquelchDBFS),
		gainControl:      agc.New(params.AGCType, params.AGCOperatingPointDB, params.AGCDeadbandDB, params.AGCBlankingLimit, params.AGCAlpha, dbfsTable, params.RxIFGainDB),
		activeMode:       demod.None,
		wbfmTable:        dsp.NewAtan2Table(),
		lastSampleRateHz: params.RxSampleRateHz,
		squelchObserver:  cfg.SquelchObserver,
	}
	if p.diagS == nil {
		p.diagS = diag.NoopSink{}
	}
	p.applyMode(params.DemodMode, params.DemodulatorGain)
	return p
}

// applyMode constructs (or clears) the active demodulator chain for mode.
// It is the only place a new chain is built, so "reset only the newly
// selected chain's state" falls out of simply replacing p.active.
func (p *Pipeline) applyMode(mode demod.Mode, gain float64) {
	switch mode {
	case demod.AM:
		p.active = demod.NewAM(gain)
	case demod.FM:
		p.active = demod.NewFM(dsp.DiscriminatorDirect, demod.FMOutputGain*gain)
	case demod.WBFM:
		p.active = demod.NewWBFM(p.wbfmTable, demod.FMOutputGain*gain)
	case demod.LSB:
		p.active = demod.NewSSB(demod.SSBLower, gain)
	case demod.USB:
		p.active = demod.NewSSB(demod.SSBUpper, gain)
	default:
		p.active = nil
	}
	p.activeMode = mode
}

// Run executes the consumer/DSP task's main loop: dequeue, accept_block,
// repeat, until ctx is cancelled. It is the "time_to_exit" cancellation
// point described by the concurrency model; on cancellation it drains
// whatever remains queued (discarding it, since nothing downstream is
// listening any more) and returns.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			p.q.DrainNonBlocking()
			return
		}
		dctx, cancel := context.WithTimeout(ctx, dequeueTimeout)
		block, ok := p.q.Dequeue(dctx)
		cancel()
		if !ok {
			continue
		}
		p.AcceptBlock(block)
	}
}

// AcceptBlock runs one block through squelch, AGC, and the currently
// selected demodulator, in that fixed order, and pushes any PCM produced
// to the sink. It never returns an error to the caller: every failure
// mode here is either a transient AGC condition (logged, gain held at
// last-known value) or a malformed block (counted, dropped) per the
// error-handling design.
func (p *Pipeline) AcceptBlock(block queue.IqBlock) {
	if len(block.Payload)%2 != 0 {
		p.ctl.Stats.IncOddBlockLength()
		return
	}
	params := p.ctl.Snapshot()

	if params.RxSampleRateHz != p.lastSampleRateHz {
		p.lastSampleRateHz = params.RxSampleRateHz
		// The reference implementation's coefficient tables target a
		// single 256 kS/s input rate; other rates reuse the same tables
		// since no alternates are provided, per the spec's own caveat.
	}
	if params.DemodMode != p.activeMode {
		p.applyMode(params.DemodMode, params.DemodulatorGain)
	}
	p.squelchTracker.ThresholdDBFS = params.SquelchDBFS
	p.gainControl.Enabled = params.AGCEnabled
	p.gainControl.Alg = params.AGCType
	p.gainControl.OperatingPointDBFS = params.AGCOperatingPointDB
	p.gainControl.DeadbandDB = params.AGCDeadbandDB
	p.gainControl.BlankingLimit = params.AGCBlankingLimit
	p.gainControl.Alpha = params.AGCAlpha

	i, q := demod.SplitIQ(block.Payload)

	ifGainDB, err := p.driver.IFGainDB()
	if err != nil {
		ifGainDB = 0
		p.diagS.Event(diag.Warn, "if gain readback failed", "err", err)
	}

	// SplitIQ scales each 8-bit sample by 256; the dBFS table shared by the
	// squelch and the AGC is indexed in 8-bit units (0..256), so scale back.
	magnitude := squelch.AverageMagnitude(i, q) >> 8
	event := p.squelchTracker.Process(magnitude, int(ifGainDB))
	if p.squelchObserver != nil {
		p.squelchObserver(event)
	}

	if _, err := p.gainControl.Step(magnitude, p.driver); err != nil {
		p.diagS.Event(diag.Warn, "agc gain commit failed, holding last gain", "err", err)
	}

	if !event.Forwarded() || p.active == nil {
		return
	}

	out := p.active.AcceptBlock(i, q)
	if out == nil {
		return
	}
	if err := p.sink.OnPCM(*out); err != nil {
		p.diagS.Event(diag.Error, "pcm sink rejected block", "err", err)
	}
}

// SetDemodMode is a convenience wrapper validating and publishing mode
// through the control interface; the Pipeline itself picks it up at the
// next block boundary via AcceptBlock's snapshot read.
func (p *Pipeline) SetDemodMode(mode demod.Mode) error {
	return p.ctl.SetDemodMode(mode)
}

// SetFrequency forwards a validated frequency change to both the control
// interface (so it is visible through Snapshot) and the tuner driver
// directly, since center frequency is not part of the DSP task's own
// state machine.
func (p *Pipeline) SetFrequency(hz uint64) error {
	if err := p.ctl.SetFrequency(hz); err != nil {
		return err
	}
	return p.driver.SetCenterFrequency(hz)
}

// SetSampleRate forwards a validated sample-rate change to the control
// interface and the tuner driver.
func (p *Pipeline) SetSampleRate(hz uint32) error {
	if err := p.ctl.SetSampleRate(hz); err != nil {
		return err
	}
	return p.driver.SetSampleRate(hz)
}

// Reset zeroes all filter states, sets the discriminator's previous-phase
// history to zero and the AGC blanking counter to zero, per the
// orchestrator's reset operation.
func (p *Pipeline) Reset() {
	p.squelchTracker.Reset()
	p.gainControl.Reset()
	if p.active != nil {
		p.active.Reset()
	}
}
