// Package imu bridges a stateful sensor-fusion engine to a flat,
// validity-flagged snapshot of multi-sensor readings. The engine itself is
// opaque: anything satisfying Engine can sit behind a Handle, which owns
// the engine together with its settings source and guarantees teardown in
// the right order.
package imu

// Sensor identifies one of the three switchable sensor groups.
type Sensor uint8

const (
	Gyro Sensor = iota
	Accel
	Compass
)

// Vector3 is a 3-component reading in the engine's native units.
type Vector3 struct {
	X, Y, Z float64
}

// OptVector is a vector group tagged with its own validity. The vector is
// meaningful only while Valid is set; engines leave it untouched otherwise.
type OptVector struct {
	Valid bool
	Vector3
}

// OptScalar is a scalar group tagged with its own validity.
type OptScalar struct {
	Valid bool
	Value float64
}

// Reading is the engine's internal result: a timestamp plus independently
// tagged optional groups. Each group's validity can flip from one read to
// the next as sensors warm up, drop out or are disabled.
type Reading struct {
	Timestamp uint64 // microseconds

	FusionPose  OptVector // fused orientation, radians
	Gyro        OptVector // rad/s
	Accel       OptVector // g
	Compass     OptVector // µT
	Pressure    OptScalar // hPa
	Temperature OptScalar // °C
	Humidity    OptScalar // %RH
}

// Engine is the capability surface the bridge depends on. Concrete engines
// (hardware-backed or simulated) are produced by a factory and used only
// through this interface.
//
// Read is a non-blocking poll: true means a new raw sample set was pulled
// into the engine's internal state, false means nothing new was available.
// Result is a pull, not a pop; without an intervening successful Read it
// returns the same data again.
type Engine interface {
	Init() error
	SetFilterGain(gain float64)
	SetEnable(s Sensor, on bool)
	Read() bool
	Result() Reading
	Close() error
}
