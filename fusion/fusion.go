// Package fusion produces imu.Engine implementations. The factory probes
// the bus for a known inertial module and returns the matching engine
// variant from a closed set; callers depend only on the imu.Engine
// interface, never on a concrete variant.
package fusion

import (
	"errors"

	"tinygo.org/x/drivers"

	"sensehat-go/drivers/lsm9ds1"
	"sensehat-go/errcode"
	"sensehat-go/imu"
	"sensehat-go/settings"
)

// Kind identifies a detected inertial module.
type Kind uint8

const (
	KindNone Kind = iota
	KindLSM9DS1
)

func (k Kind) String() string {
	switch k {
	case KindLSM9DS1:
		return "lsm9ds1"
	default:
		return "none"
	}
}

// Detect probes the bus for a supported inertial module.
func Detect(bus drivers.I2C) Kind {
	dev := lsm9ds1.New(bus, lsm9ds1.Config{})
	if dev.Connected() {
		return KindLSM9DS1
	}
	return KindNone
}

// New probes the bus and constructs the engine for whatever hardware
// answers. The settings source carries calibration and must stay open for
// the engine's whole lifetime; the imu.Handle enforces that ordering.
func New(bus drivers.I2C, st *settings.Settings) (imu.Engine, error) {
	switch Detect(bus) {
	case KindLSM9DS1:
		return newLSM9DS1Engine(bus, st), nil
	default:
		return nil, errcode.Wrap(errcode.NoIMU, "fusion.New",
			errors.New("no supported inertial module on bus"))
	}
}
