// Package imutest provides a scripted in-memory engine for exercising the
// bridge without hardware.
package imutest

import (
	"errors"

	"sensehat-go/imu"
)

// ErrClosed is returned by Close on an already-closed fake.
var ErrClosed = errors.New("imutest: engine already closed")

// Engine is a scripted imu.Engine. The zero value is usable: Init succeeds,
// Read reports false and every group is invalid. Tests poke Current and
// ReadOK between calls.
type Engine struct {
	// Current is returned by Result, optionally masked by the enable flags.
	Current imu.Reading
	// ReadOK scripts the next PumpReading results. Empty means false.
	ReadOK []bool
	// GateByEnable masks the gyro/accel/compass groups of Current with the
	// enable flags, the way a real engine starves disabled sensors.
	GateByEnable bool

	InitErr error

	// Observed state.
	Gain    float64
	Enabled map[imu.Sensor]bool
	Reads   int
	Closed  bool

	// OnClose, when set, runs inside Close before the fake marks itself
	// closed. Used to observe teardown ordering.
	OnClose func()
}

func (e *Engine) Init() error {
	if e.Enabled == nil {
		e.Enabled = make(map[imu.Sensor]bool)
	}
	return e.InitErr
}

func (e *Engine) SetFilterGain(gain float64) { e.Gain = gain }

func (e *Engine) SetEnable(s imu.Sensor, on bool) {
	if e.Enabled == nil {
		e.Enabled = make(map[imu.Sensor]bool)
	}
	e.Enabled[s] = on
}

func (e *Engine) Read() bool {
	e.Reads++
	if len(e.ReadOK) == 0 {
		return false
	}
	ok := e.ReadOK[0]
	e.ReadOK = e.ReadOK[1:]
	return ok
}

func (e *Engine) Result() imu.Reading {
	r := e.Current
	if e.GateByEnable {
		if !e.Enabled[imu.Gyro] {
			r.Gyro = imu.OptVector{}
		}
		if !e.Enabled[imu.Accel] {
			r.Accel = imu.OptVector{}
		}
		if !e.Enabled[imu.Compass] {
			r.Compass = imu.OptVector{}
		}
	}
	return r
}

func (e *Engine) Close() error {
	if e.Closed {
		return ErrClosed
	}
	if e.OnClose != nil {
		e.OnClose()
	}
	e.Closed = true
	return nil
}
