// Package config loads pipeline/tuner parameters from a YAML file, the
// way the reference project's config_init applies defaults and then lets
// a file override them — except here the source is structured YAML
// (gopkg.in/yaml.v3) instead of a line-oriented command grammar, and
// every value is pushed through the same validated control.Interface
// setters the CLI uses at runtime, so a bad config file fails the same
// way a bad runtime command would: InvalidParameter, no state mutated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kb9rlw/sdrcore/agc"
	"github.com/kb9rlw/sdrcore/control"
	"github.com/kb9rlw/sdrcore/demod"
)

// TunerSettings describes how to reach the physical tuner; it sits
// outside control.Params because it configures driver construction, not
// a runtime-adjustable DSP parameter.
type TunerSettings struct {
	Driver     string `yaml:"driver"`      // "hamlib", "serial", or "loopback"
	HamlibRig  int    `yaml:"hamlib_rig"`  // Hamlib rig model number
	HamlibPort string `yaml:"hamlib_port"` // device path passed to Hamlib
	SerialPort string `yaml:"serial_port"` // device path for the CAT adapter
	BaudRate   int    `yaml:"baud_rate"`
	GPIOChip   string `yaml:"gpio_chip"`   // optional squelch-indicator chip
	GPIOLine   int    `yaml:"gpio_line"`
}

// file is the on-disk YAML shape: one key per spec.md §6 configuration
// parameter, plus the tuner connection block. Field names are
// snake_case to match the parameter table exactly.
type file struct {
	DemodMode      string  `yaml:"demod_mode"`
	RxFrequencyHz  uint64  `yaml:"rx_frequency_hz"`
	RxSampleRateHz uint32  `yaml:"rx_sample_rate_hz"`
	RxBandwidthHz  uint32  `yaml:"rx_bandwidth_hz"`
	RxGainDB       *uint32 `yaml:"rx_gain_db"` // nil means leave at default (auto)
	RxIFGainDB     *uint32 `yaml:"rx_if_gain_db"`
	SquelchDBFS    *int    `yaml:"squelch_threshold_dbfs"`

	AGCEnabled          *bool    `yaml:"agc_enabled"`
	AGCType             string   `yaml:"agc_type"`
	AGCDeadbandDB       *int     `yaml:"agc_deadband_db"`
	AGCBlankingLimit    *uint    `yaml:"agc_blanking_limit"`
	AGCAlpha            *float64 `yaml:"agc_alpha"`
	AGCOperatingPointDB *int     `yaml:"agc_operating_point_dbfs"`

	DemodulatorGain *float64 `yaml:"demodulator_gain"`

	Tuner TunerSettings `yaml:"tuner"`
}

func parseMode(s string) (demod.Mode, error) {
	switch s {
	case "", "none", "None":
		return demod.None, nil
	case "AM", "am":
		return demod.AM, nil
	case "FM", "fm":
		return demod.FM, nil
	case "WBFM", "wbfm":
		return demod.WBFM, nil
	case "LSB", "lsb":
		return demod.LSB, nil
	case "USB", "usb":
		return demod.USB, nil
	default:
		return demod.None, &control.InvalidParameter{Field: "demod_mode", Value: s}
	}
}

func parseAGCType(s string) (agc.Algorithm, error) {
	switch s {
	case "", "lowpass", "Lowpass":
		return agc.Lowpass, nil
	case "harris", "Harris":
		return agc.Harris, nil
	default:
		return agc.Lowpass, &control.InvalidParameter{Field: "agc_type", Value: s}
	}
}

// Load reads path, applies every present field through the control
// Interface's validated setters (so the acceptance rules are identical
// to what a running CLI enforces), and returns the control Interface
// holding the resulting Params plus the tuner connection settings. The returned *control.Interface
// still holds the reference defaults for any field the file did not set.
func Load(path string) (*control.Interface, TunerSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, TunerSettings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, TunerSettings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	ctl := control.New()

	mode, err := parseMode(f.DemodMode)
	if err != nil {
		return nil, TunerSettings{}, err
	}
	if err := ctl.SetDemodMode(mode); err != nil {
		return nil, TunerSettings{}, err
	}

	if f.RxFrequencyHz != 0 {
		if err := ctl.SetFrequency(f.RxFrequencyHz); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.RxSampleRateHz != 0 {
		if err := ctl.SetSampleRate(f.RxSampleRateHz); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.RxBandwidthHz != 0 {
		if err := ctl.SetBandwidth(f.RxBandwidthHz); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.RxGainDB != nil {
		if err := ctl.SetGain(*f.RxGainDB); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.RxIFGainDB != nil {
		if err := ctl.SetIFGain(*f.RxIFGainDB); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.SquelchDBFS != nil {
		if err := ctl.SetSquelchThreshold(*f.SquelchDBFS); err != nil {
			return nil, TunerSettings{}, err
		}
	}

	if f.AGCEnabled != nil {
		ctl.SetAGCEnabled(*f.AGCEnabled)
	}
	alg, err := parseAGCType(f.AGCType)
	if err != nil {
		return nil, TunerSettings{}, err
	}
	if f.AGCType != "" {
		if err := ctl.SetAGCType(alg); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.AGCDeadbandDB != nil {
		if err := ctl.SetAGCDeadband(*f.AGCDeadbandDB); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.AGCBlankingLimit != nil {
		if err := ctl.SetAGCBlankingLimit(*f.AGCBlankingLimit); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.AGCAlpha != nil {
		if err := ctl.SetAGCAlpha(*f.AGCAlpha); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.AGCOperatingPointDB != nil {
		if err := ctl.SetAGCOperatingPoint(*f.AGCOperatingPointDB); err != nil {
			return nil, TunerSettings{}, err
		}
	}
	if f.DemodulatorGain != nil {
		if err := ctl.SetDemodulatorGain(*f.DemodulatorGain); err != nil {
			return nil, TunerSettings{}, err
		}
	}

	tuner := f.Tuner
	if tuner.Driver == "" {
		tuner.Driver = "loopback"
	}
	return ctl, tuner, nil
}
