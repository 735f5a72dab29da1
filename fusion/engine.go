package fusion

import (
	"tinygo.org/x/drivers"

	"sensehat-go/drivers/hts221"
	"sensehat-go/drivers/lps25h"
	"sensehat-go/drivers/lsm9ds1"
	"sensehat-go/errcode"
	"sensehat-go/imu"
	"sensehat-go/settings"
	"sensehat-go/x/timex"
)

// lsm9ds1Engine drives a Sense HAT sensor stack: LSM9DS1 for the inertial
// groups, LPS25H and HTS221 for the environmental scalars. The env chips
// are optional; a missing chip just leaves its groups invalid.
type lsm9ds1Engine struct {
	st *settings.Settings

	dev  lsm9ds1.Device
	baro lps25h.Device
	hum  hts221.Device

	hasBaro bool
	hasHum  bool

	enabled map[imu.Sensor]bool
	filter  rtqf

	gyroBias      [3]float64
	compassOffset [3]float64

	// Env samples persist across reads; the chips update at a lower rate
	// than the IMU and carry their last refreshed values forward.
	baroSample lps25h.Sample
	humSample  hts221.Sample
	baroOK     bool
	humOK      bool

	last   imu.Reading
	lastTs uint64
	closed bool
}

func newLSM9DS1Engine(bus drivers.I2C, st *settings.Settings) *lsm9ds1Engine {
	return &lsm9ds1Engine{
		st:   st,
		dev:  lsm9ds1.New(bus, lsm9ds1.Config{}),
		baro: lps25h.New(bus),
		hum:  hts221.New(bus),
		enabled: map[imu.Sensor]bool{
			imu.Gyro: true, imu.Accel: true, imu.Compass: true,
		},
	}
}

// Init configures the inertial module and whatever environmental chips
// answer, then applies stored calibration. Only the inertial module is
// mandatory.
func (e *lsm9ds1Engine) Init() error {
	if err := e.dev.Configure(); err != nil {
		return errcode.Wrap(errcode.ProbeFailed, "fusion.Init", err)
	}
	e.hasBaro = e.baro.Connected() && e.baro.Configure() == nil
	e.hasHum = e.hum.Connected() && e.hum.Configure() == nil

	if e.st.GyroBiasValid {
		e.gyroBias = e.st.GyroBias
	}
	if e.st.CompassCalValid {
		for i := range e.compassOffset {
			e.compassOffset[i] = (e.st.CompassCalMin[i] + e.st.CompassCalMax[i]) / 2
		}
	}
	return nil
}

func (e *lsm9ds1Engine) SetFilterGain(gain float64) {
	e.filter.setGain(gain)
}

func (e *lsm9ds1Engine) SetEnable(s imu.Sensor, on bool) {
	e.enabled[s] = on
}

// Read polls the inertial module once. False means no new sample set was
// available; the previous result stays current. A successful poll rebuilds
// the whole result: each group's validity reflects this cycle only.
func (e *lsm9ds1Engine) Read() bool {
	if e.closed {
		return false
	}
	var s lsm9ds1.Sample
	if err := e.dev.Collect(&s); err != nil {
		return false
	}

	ts := timex.NowUs()
	dt := timex.SecondsBetween(e.lastTs, ts)
	e.lastTs = ts

	var r imu.Reading
	r.Timestamp = ts

	if e.enabled[imu.Gyro] {
		x, y, z := s.Gyro()
		r.Gyro = imu.OptVector{Valid: true, Vector3: imu.Vector3{
			X: x - e.gyroBias[0], Y: y - e.gyroBias[1], Z: z - e.gyroBias[2],
		}}
	}
	if e.enabled[imu.Accel] {
		x, y, z := s.Accel()
		r.Accel = imu.OptVector{Valid: true, Vector3: imu.Vector3{X: x, Y: y, Z: z}}
	}
	if e.enabled[imu.Compass] && s.MagValid {
		x, y, z := s.Mag()
		r.Compass = imu.OptVector{Valid: true, Vector3: imu.Vector3{
			X: x - e.compassOffset[0], Y: y - e.compassOffset[1], Z: z - e.compassOffset[2],
		}}
	}

	if pose, ok := e.filter.update(r.Gyro, r.Accel, r.Compass, dt); ok {
		r.FusionPose = imu.OptVector{Valid: true, Vector3: pose}
	}

	e.readEnv(&r)
	e.last = r
	return true
}

// readEnv refreshes the environmental groups. Not-ready is normal (the
// chips sample at 25 Hz and below); the last good value carries forward.
// A bus error drops the group until the chip answers again.
func (e *lsm9ds1Engine) readEnv(r *imu.Reading) {
	if e.hasBaro {
		switch err := e.baro.Collect(&e.baroSample); err {
		case nil:
			e.baroOK = true
		case lps25h.ErrNotReady:
		default:
			e.baroOK = false
		}
		if e.baroOK {
			r.Pressure = imu.OptScalar{Valid: true, Value: e.baroSample.HPa()}
		}
	}
	if e.hasHum {
		switch err := e.hum.Collect(&e.humSample); err {
		case nil:
			e.humOK = true
		case hts221.ErrNotReady:
		default:
			e.humOK = false
		}
		if e.humOK {
			r.Humidity = imu.OptScalar{Valid: true, Value: e.humSample.Humidity}
		}
	}

	// The humidity chip's thermometer is the tighter one (±0.5°C vs ±2°C);
	// fall back to the barometer's.
	switch {
	case e.humOK && e.humSample.TempValid:
		r.Temperature = imu.OptScalar{Valid: true, Value: e.humSample.Celsius}
	case e.baroOK && e.baroSample.TempValid:
		r.Temperature = imu.OptScalar{Valid: true, Value: e.baroSample.Celsius()}
	}
}

// Result returns the latest reading. It is a pull, not a pop: without an
// intervening successful Read the same data comes back again.
func (e *lsm9ds1Engine) Result() imu.Reading {
	return e.last
}

func (e *lsm9ds1Engine) Close() error {
	if e.closed {
		return errcode.Wrap(errcode.Closed, "fusion.Close", nil)
	}
	e.closed = true
	return nil
}
