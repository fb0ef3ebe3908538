// Package control implements the parameter surface a CLI or other control
// task uses to reconfigure the running pipeline: validated setters that
// publish atomically-readable configuration cells, consumed by the DSP
// task at the top of each block.
package control

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kb9rlw/sdrcore/agc"
	"github.com/kb9rlw/sdrcore/demod"
)

// GainAuto is the sentinel overall-gain value requesting tuner auto-AGC.
const GainAuto = 99999

// InvalidParameter reports an out-of-range configuration value. It is
// returned to the caller of the setter and never mutates state.
type InvalidParameter struct {
	Field string
	Value any
}

func (e *InvalidParameter) Error() string {
	return fmt.Sprintf("control: invalid value for %s: %v", e.Field, e.Value)
}

// Params is a snapshot of every configuration cell the pipeline consults.
type Params struct {
	DemodMode      demod.Mode
	RxFrequencyHz  uint64
	RxSampleRateHz uint32
	RxBandwidthHz  uint32
	RxGainDB       uint32 // GainAuto selects tuner auto-AGC
	RxIFGainDB     uint32
	SquelchDBFS    int

	AGCEnabled          bool
	AGCType             agc.Algorithm
	AGCDeadbandDB       int
	AGCBlankingLimit    uint
	AGCAlpha            float64
	AGCOperatingPointDB int

	DemodulatorGain float64
}

// defaultParams matches the reference receiver's out-of-the-box settings.
func defaultParams() Params {
	return Params{
		DemodMode:           demod.None,
		RxFrequencyHz:       100_000_000,
		RxSampleRateHz:      256_000,
		RxBandwidthHz:       200_000,
		RxGainDB:            GainAuto,
		RxIFGainDB:          24,
		SquelchDBFS:         -100,
		AGCEnabled:          true,
		AGCType:             agc.Lowpass,
		AGCDeadbandDB:       2,
		AGCBlankingLimit:    2,
		AGCAlpha:            0.25,
		AGCOperatingPointDB: -30,
		DemodulatorGain:     1.0,
	}
}

// Stats are hot-path error counters the DSP/producer side increments and
// the control surface can read back.
type Stats struct {
	oddBlockLength uint64
	queueFull      uint64
}

func (s *Stats) IncOddBlockLength() { atomic.AddUint64(&s.oddBlockLength, 1) }
func (s *Stats) IncQueueFull()      { atomic.AddUint64(&s.queueFull, 1) }
func (s *Stats) OddBlockLength() uint64 { return atomic.LoadUint64(&s.oddBlockLength) }
func (s *Stats) QueueFull() uint64      { return atomic.LoadUint64(&s.queueFull) }

// Interface is the control surface: validated setters over a
// mutex-guarded Params, readable as an atomic snapshot by the DSP task.
type Interface struct {
	mu     sync.RWMutex
	params Params
	Stats  Stats
}

// New builds an Interface with the reference default parameters.
func New() *Interface {
	return &Interface{params: defaultParams()}
}

// Snapshot returns a copy of the current parameters. The DSP task calls
// this once at the top of each block.
func (c *Interface) Snapshot() Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params
}

func (c *Interface) mutate(f func(*Params)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.params)
}

// SetDemodMode validates and publishes a new demodulator mode.
func (c *Interface) SetDemodMode(mode demod.Mode) error {
	switch mode {
	case demod.None, demod.AM, demod.FM, demod.WBFM, demod.LSB, demod.USB:
	default:
		return &InvalidParameter{Field: "demod_mode", Value: mode}
	}
	c.mutate(func(p *Params) { p.DemodMode = mode })
	return nil
}

// SetFrequency validates and publishes a new center frequency.
func (c *Interface) SetFrequency(hz uint64) error {
	if hz < 100_000 || hz > 1_700_000_000 {
		return &InvalidParameter{Field: "rx_frequency_hz", Value: hz}
	}
	c.mutate(func(p *Params) { p.RxFrequencyHz = hz })
	return nil
}

// SetSampleRate validates and publishes a new I/Q sample rate.
func (c *Interface) SetSampleRate(hz uint32) error {
	inLow := hz >= 225_001 && hz <= 300_000
	inHigh := hz >= 900_001 && hz <= 3_200_000
	if !inLow && !inHigh {
		return &InvalidParameter{Field: "rx_sample_rate_hz", Value: hz}
	}
	c.mutate(func(p *Params) { p.RxSampleRateHz = hz })
	return nil
}

// SetBandwidth publishes a new analog-LPF bandwidth; validation is
// tuner-dependent so only a positive value is enforced here.
func (c *Interface) SetBandwidth(hz uint32) error {
	if hz == 0 {
		return &InvalidParameter{Field: "rx_bandwidth_hz", Value: hz}
	}
	c.mutate(func(p *Params) { p.RxBandwidthHz = hz })
	return nil
}

// SetGain validates and publishes a new overall RF gain, or GainAuto.
func (c *Interface) SetGain(db uint32) error {
	if db != GainAuto && db > 50 {
		return &InvalidParameter{Field: "rx_gain_db", Value: db}
	}
	c.mutate(func(p *Params) { p.RxGainDB = db })
	return nil
}

// SetIFGain validates and publishes a new IF gain (also written by the AGC
// when enabled).
func (c *Interface) SetIFGain(db uint32) error {
	if db > 46 {
		return &InvalidParameter{Field: "rx_if_gain_db", Value: db}
	}
	c.mutate(func(p *Params) { p.RxIFGainDB = db })
	return nil
}

// SetSquelchThreshold validates and publishes a new squelch threshold.
func (c *Interface) SetSquelchThreshold(dbfs int) error {
	if dbfs < -200 || dbfs > 0 {
		return &InvalidParameter{Field: "squelch_threshold_dbfs", Value: dbfs}
	}
	c.mutate(func(p *Params) { p.SquelchDBFS = dbfs })
	return nil
}

// SetAGCEnabled toggles the AGC master switch.
func (c *Interface) SetAGCEnabled(enabled bool) {
	c.mutate(func(p *Params) { p.AGCEnabled = enabled })
}

// SetAGCType validates and publishes a new AGC algorithm.
func (c *Interface) SetAGCType(alg agc.Algorithm) error {
	switch alg {
	case agc.Lowpass, agc.Harris:
	default:
		return &InvalidParameter{Field: "agc_type", Value: alg}
	}
	c.mutate(func(p *Params) { p.AGCType = alg })
	return nil
}

// SetAGCDeadband validates and publishes a new AGC deadband.
func (c *Interface) SetAGCDeadband(db int) error {
	if db < 0 || db > 10 {
		return &InvalidParameter{Field: "agc_deadband_db", Value: db}
	}
	c.mutate(func(p *Params) { p.AGCDeadbandDB = db })
	return nil
}

// SetAGCBlankingLimit validates and publishes a new AGC blanking limit.
func (c *Interface) SetAGCBlankingLimit(limit uint) error {
	if limit > 10 {
		return &InvalidParameter{Field: "agc_blanking_limit", Value: limit}
	}
	c.mutate(func(p *Params) { p.AGCBlankingLimit = limit })
	return nil
}

// SetAGCAlpha validates and publishes a new AGC loop time constant.
func (c *Interface) SetAGCAlpha(alpha float64) error {
	if alpha <= 0.001 || alpha >= 0.999 {
		return &InvalidParameter{Field: "agc_alpha", Value: alpha}
	}
	c.mutate(func(p *Params) { p.AGCAlpha = alpha })
	return nil
}

// SetAGCOperatingPoint publishes a new AGC target level.
func (c *Interface) SetAGCOperatingPoint(dbfs int) error {
	c.mutate(func(p *Params) { p.AGCOperatingPointDB = dbfs })
	return nil
}

// SetDemodulatorGain validates and publishes a new output scaling factor.
func (c *Interface) SetDemodulatorGain(gain float64) error {
	if gain <= 0 {
		return &InvalidParameter{Field: "demodulator_gain", Value: gain}
	}
	c.mutate(func(p *Params) { p.DemodulatorGain = gain })
	return nil
}
