// Package settings holds the persistent configuration consumed by the IMU
// engine: bus location, fusion filter gain and calibration data. A settings
// source is addressed by name; opening a name that does not exist yet
// creates it with defaults, so a fresh system starts from a well-known
// state and calibration survives restarts.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sensehat-go/errcode"
)

// DefaultFilterGain is the fusion filter smoothing constant applied to new
// engines (RTIMULib calls this the slerp power).
const DefaultFilterGain = 0.02

// DefaultBusPath is the I2C bus the Sense HAT sits on.
const DefaultBusPath = "/dev/i2c-1"

// File suffix appended when the source name carries no extension.
const fileExt = ".yaml"

// Values is the on-disk shape. All fields are optional in the file;
// zero values are replaced by defaults on load.
type Values struct {
	BusPath    string  `yaml:"bus_path"`
	FilterGain float64 `yaml:"filter_gain"`

	CompassCalValid bool       `yaml:"compass_cal_valid"`
	CompassCalMin   [3]float64 `yaml:"compass_cal_min"`
	CompassCalMax   [3]float64 `yaml:"compass_cal_max"`

	GyroBiasValid bool       `yaml:"gyro_bias_valid"`
	GyroBias      [3]float64 `yaml:"gyro_bias"`
}

// Settings is an open settings source bound to a file path.
type Settings struct {
	Values

	path  string
	dirty bool
}

// Open loads the named settings source, creating it with defaults if it
// does not exist. A bare name (no separator, no extension) maps to
// "<name>.yaml" in the current directory.
func Open(name string) (*Settings, error) {
	if name == "" {
		return nil, errcode.Wrap(errcode.SettingsError, "settings.Open",
			errors.New("empty settings name"))
	}
	path := name
	if !strings.ContainsRune(path, os.PathSeparator) && filepath.Ext(path) == "" {
		path += fileExt
	}

	s := &Settings{path: path}
	s.Values = defaults()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &s.Values); err != nil {
			return nil, errcode.Wrap(errcode.SettingsError, "settings.Open", err)
		}
		s.applyDefaults()
	case os.IsNotExist(err):
		// First run: materialise the defaults so calibration tooling has
		// a file to edit.
		s.dirty = true
		if err := s.Save(); err != nil {
			return nil, err
		}
	default:
		return nil, errcode.Wrap(errcode.SettingsError, "settings.Open", err)
	}
	return s, nil
}

func defaults() Values {
	return Values{
		BusPath:    DefaultBusPath,
		FilterGain: DefaultFilterGain,
	}
}

func (s *Settings) applyDefaults() {
	if s.BusPath == "" {
		s.BusPath = DefaultBusPath
	}
	if s.FilterGain <= 0 {
		s.FilterGain = DefaultFilterGain
	}
}

// Path returns the backing file path.
func (s *Settings) Path() string { return s.path }

// SetCompassCal records compass calibration extents and marks the source dirty.
func (s *Settings) SetCompassCal(min, max [3]float64) {
	s.CompassCalValid = true
	s.CompassCalMin = min
	s.CompassCalMax = max
	s.dirty = true
}

// SetGyroBias records a gyro bias estimate and marks the source dirty.
func (s *Settings) SetGyroBias(bias [3]float64) {
	s.GyroBiasValid = true
	s.GyroBias = bias
	s.dirty = true
}

// Save writes the current values to the backing file.
func (s *Settings) Save() error {
	raw, err := yaml.Marshal(&s.Values)
	if err != nil {
		return errcode.Wrap(errcode.SettingsError, "settings.Save", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errcode.Wrap(errcode.SettingsError, "settings.Save", err)
	}
	s.dirty = false
	return nil
}

// Close flushes any unsaved changes. The settings source must stay open for
// as long as an engine built from it is alive; the engine is torn down first.
func (s *Settings) Close() error {
	if !s.dirty {
		return nil
	}
	return s.Save()
}
