// Package agc implements the automatic gain control loop that closes
// around a tuner's adjustable IF gain stage, once per accepted I/Q block.
package agc

import "math"

// Algorithm selects the AGC's filtering rule. The set is closed at two.
type Algorithm int

const (
	Lowpass Algorithm = iota
	Harris
)

func (a Algorithm) String() string {
	if a == Harris {
		return "harris"
	}
	return "lowpass"
}

const (
	minGainDB = 0
	maxGainDB = 46
)

// GainDriver is the subset of the tuner driver interface the AGC needs: a
// readback (for drift recovery) and a setter to commit a new gain.
type GainDriver interface {
	IFGainDB() (uint, error)
	SetIFGainDB(stage byte, gainDB uint) error
}

// AGC is the automatic gain control loop. It is owned single-threaded by
// the pipeline; the Control Interface only reaches it through atomically
// published configuration cells consumed at block boundaries.
type AGC struct {
	Enabled            bool
	Alg                Algorithm
	OperatingPointDBFS int
	DeadbandDB         int
	BlankingLimit      uint
	Alpha              float64

	ifGainDB               uint
	filteredIfGainDB       float64
	blankingCounter        uint
	receiveGainWasAdjusted bool

	dbfsTable [257]int
}

// New builds an AGC seeded with the driver's current IF gain.
func New(alg Algorithm, operatingPointDBFS, deadbandDB int, blankingLimit uint, alpha float64, dbfsTable [257]int, initialGainDB uint) *AGC {
	return &AGC{
		Enabled:            true,
		Alg:                alg,
		OperatingPointDBFS: operatingPointDBFS,
		DeadbandDB:         deadbandDB,
		BlankingLimit:      blankingLimit,
		Alpha:              alpha,
		ifGainDB:           initialGainDB,
		filteredIfGainDB:   float64(initialGainDB),
		dbfsTable:          dbfsTable,
	}
}

// IFGainDB returns the AGC's own copy of the current gain.
func (a *AGC) IFGainDB() uint { return a.ifGainDB }

// Reset clears the blanking counter and adjustment-pending flag, leaving
// the current gain value untouched.
func (a *AGC) Reset() {
	a.blankingCounter = 0
	a.receiveGainWasAdjusted = false
}

// Step runs one AGC cycle against the average magnitude of the block just
// squelch-processed. It reads the driver's current gain first (drift
// recovery), applies the blanking gate, computes the error, updates the
// filtered gain with the configured algorithm, and commits a change to the
// driver if warranted. It reports whether a commit was made.
func (a *AGC) Step(magnitude uint, driver GainDriver) (bool, error) {
	if !a.Enabled {
		return false, nil
	}

	driverGain, err := driver.IFGainDB()
	if err != nil {
		return false, err
	}
	if driverGain != a.ifGainDB {
		// Drift recovery: someone else changed the gain. Accept it without
		// running an adjustment step this cycle.
		a.ifGainDB = driverGain
		a.filteredIfGainDB = float64(driverGain)
		return false, nil
	}

	if a.receiveGainWasAdjusted {
		if a.blankingCounter < a.BlankingLimit {
			a.blankingCounter++
			return false, nil
		}
		a.blankingCounter = 0
		a.receiveGainWasAdjusted = false
	}

	m := int(magnitude)
	if m > 256 {
		m = 256
	}
	if m < 0 {
		m = 0
	}
	signalDBFS := a.dbfsTable[m]
	errorDB := a.OperatingPointDBFS - signalDBFS
	if absInt(errorDB) <= a.DeadbandDB {
		errorDB = 0
	}

	if a.ifGainDB == maxGainDB && errorDB > 0 {
		errorDB = 0
	}
	if a.ifGainDB == minGainDB && errorDB < 0 {
		errorDB = 0
	}

	prevFiltered := a.filteredIfGainDB
	switch a.Alg {
	case Lowpass:
		adjusted := float64(a.ifGainDB) + float64(errorDB)
		a.filteredIfGainDB = a.Alpha*adjusted + (1-a.Alpha)*a.filteredIfGainDB
	case Harris:
		a.filteredIfGainDB += a.Alpha * float64(errorDB)
	}

	if a.filteredIfGainDB > maxGainDB {
		a.filteredIfGainDB = maxGainDB
	}
	if a.filteredIfGainDB < minGainDB {
		a.filteredIfGainDB = minGainDB
	}
	a.ifGainDB = uint(math.Floor(a.filteredIfGainDB))

	if errorDB == 0 {
		return false, nil
	}

	if err := driver.SetIFGainDB(0, a.ifGainDB); err != nil {
		// Transient TunerIo on gain-set: the next cycle will retry. Roll
		// back to the state before this step so that cycle sees no drift
		// and runs the adjustment again; leave receiveGainWasAdjusted unset
		// so the gate does not engage on a change that never happened.
		a.ifGainDB = driverGain
		a.filteredIfGainDB = prevFiltered
		return false, err
	}
	a.receiveGainWasAdjusted = true
	return true, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
