package imu

import (
	"errors"

	"sensehat-go/errcode"
	"sensehat-go/settings"
)

// DefaultSettingsName is the settings source opened when Config.Settings is
// empty.
const DefaultSettingsName = "sensehat"

// Config controls Handle construction. NewEngine is the only required
// field: it binds the opaque engine to the settings source (see the fusion
// package for the hardware factory).
type Config struct {
	// Settings names the settings source; empty selects DefaultSettingsName.
	Settings string
	// FilterGain overrides the fusion filter gain; zero selects the
	// settings value (itself defaulting to settings.DefaultFilterGain).
	FilterGain float64
	// NewEngine constructs the engine from the open settings source. The
	// settings outlive the engine: the Handle closes the engine first.
	NewEngine func(*settings.Settings) (Engine, error)
}

// Handle owns a settings source and the engine built from it. The engine
// may hold references into the settings, so Close releases the engine
// strictly before the settings. A Handle is single-threaded: callers
// needing concurrent access must serialise the whole pump+extract sequence
// themselves.
type Handle struct {
	settings *settings.Settings
	engine   Engine

	gyroOn    bool
	accelOn   bool
	compassOn bool
}

// Open constructs a Handle: it opens (or creates) the settings source,
// builds the engine bound to it, runs engine self-initialisation, applies
// the filter gain and enables all three sensor groups. Construction errors
// are fatal and not retried; partially built resources are released in
// reverse order before returning.
func Open(cfg Config) (*Handle, error) {
	if cfg.NewEngine == nil {
		return nil, errcode.Wrap(errcode.Error, "imu.Open",
			errors.New("no engine factory"))
	}
	name := cfg.Settings
	if name == "" {
		name = DefaultSettingsName
	}
	st, err := settings.Open(name)
	if err != nil {
		return nil, err
	}
	eng, err := cfg.NewEngine(st)
	if err != nil {
		st.Close()
		return nil, err
	}
	if eng == nil {
		// A factory must never hand back a nil engine without an error;
		// fail loudly rather than dereference it later.
		st.Close()
		return nil, errcode.Wrap(errcode.NoIMU, "imu.Open",
			errors.New("engine factory returned nil"))
	}
	if err := eng.Init(); err != nil {
		eng.Close()
		st.Close()
		return nil, errcode.Wrap(errcode.Error, "imu.Open", err)
	}

	gain := cfg.FilterGain
	if gain <= 0 {
		gain = st.FilterGain
	}
	if gain <= 0 {
		gain = settings.DefaultFilterGain
	}
	eng.SetFilterGain(gain)

	h := &Handle{settings: st, engine: eng}
	h.SetSensorEnable(true, true, true)
	return h, nil
}

// SetSensorEnable unconditionally overwrites the engine's three enable
// flags. Any combination is accepted, including all-false, which starves
// every dependent field group on subsequent reads. No-op on a closed
// handle.
func (h *Handle) SetSensorEnable(gyro, accel, compass bool) {
	h.gyroOn, h.accelOn, h.compassOn = gyro, accel, compass
	if h.engine == nil {
		return
	}
	h.engine.SetEnable(Gyro, gyro)
	h.engine.SetEnable(Accel, accel)
	h.engine.SetEnable(Compass, compass)
}

// SensorEnable returns the current enable flags.
func (h *Handle) SensorEnable() (gyro, accel, compass bool) {
	return h.gyroOn, h.accelOn, h.compassOn
}

// PumpReading polls the engine for one new raw sample set. True means new
// data landed in the engine's internal state and Extract will see it; false
// means nothing new was available, which is a normal steady-state condition
// and not an error. Call until true (or a caller-chosen budget runs out)
// before extracting, to avoid stale contents. Always false on a closed
// handle.
func (h *Handle) PumpReading() bool {
	if h.engine == nil {
		return false
	}
	return h.engine.Read()
}

// Close releases the engine strictly before the settings source and
// invalidates the handle. Closing an already-closed handle returns a
// use-after-close error.
func (h *Handle) Close() error {
	if h.engine == nil && h.settings == nil {
		return errcode.Wrap(errcode.Closed, "imu.Close", nil)
	}
	var errEng, errSet error
	if h.engine != nil {
		errEng = h.engine.Close()
		h.engine = nil
	}
	if h.settings != nil {
		errSet = h.settings.Close()
		h.settings = nil
	}
	return errors.Join(errEng, errSet)
}
