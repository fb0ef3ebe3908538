// Package tuner defines the driver interface the DSP core consumes to
// control an external receiver front end, plus two concrete adapters: a
// Hamlib rig-control driver and a raw serial CAT driver.
package tuner

import "errors"

// ErrBusy and ErrIO are returned by driver operations; ErrIO on a gain-set
// is treated by the AGC as transient (the next cycle retries).
var (
	ErrBusy = errors.New("tuner: busy")
	ErrIO   = errors.New("tuner: io error")
)

// Driver is the minimal capability set the core requires of a tuner.
// Implementations that only satisfy IFGainDB/SetIFGainDB automatically
// satisfy agc.GainDriver.
type Driver interface {
	SetCenterFrequency(hz uint64) error
	SetSampleRate(hz uint32) error
	// SetIFGainDB sets the IF gain stage (stage is ignored by reference
	// hardware; gainDB in [0,46]).
	SetIFGainDB(stage byte, gainDB uint) error
	// IFGainDB reads back the current IF gain, for AGC drift recovery.
	IFGainDB() (uint, error)
	// SetOverallGainDB sets overall RF gain, or auto-AGC when gainDB is
	// the control.GainAuto sentinel (99999).
	SetOverallGainDB(gainDB uint32) error
}

// LoopbackDriver is an in-memory Driver for tests and the demo CLI: it
// just remembers the last value set for each parameter.
type LoopbackDriver struct {
	frequencyHz uint64
	sampleRate  uint32
	ifGainDB    uint
	overallGain uint32
}

// NewLoopbackDriver builds a LoopbackDriver with the given initial IF gain.
func NewLoopbackDriver(initialIFGainDB uint) *LoopbackDriver {
	return &LoopbackDriver{ifGainDB: initialIFGainDB}
}

func (d *LoopbackDriver) SetCenterFrequency(hz uint64) error { d.frequencyHz = hz; return nil }
func (d *LoopbackDriver) SetSampleRate(hz uint32) error      { d.sampleRate = hz; return nil }
func (d *LoopbackDriver) SetIFGainDB(_ byte, gainDB uint) error {
	d.ifGainDB = gainDB
	return nil
}
func (d *LoopbackDriver) IFGainDB() (uint, error)            { return d.ifGainDB, nil }
func (d *LoopbackDriver) SetOverallGainDB(gainDB uint32) error { d.overallGain = gainDB; return nil }
func (d *LoopbackDriver) FrequencyHz() uint64                  { return d.frequencyHz }
func (d *LoopbackDriver) SampleRateHz() uint32                 { return d.sampleRate }
