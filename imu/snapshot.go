package imu

import "sensehat-go/errcode"

// Snapshot is the flat record handed to consumers. Field order is fixed and
// part of the contract for binary-compatibility-sensitive callers:
// timestamp first, then each group as a validity flag immediately followed
// by its value. A value is meaningful only while its flag is set; when the
// flag is false the value is unspecified and must not be read.
type Snapshot struct {
	Timestamp uint64

	FusionPoseValid bool
	FusionPose      Vector3

	GyroValid bool
	Gyro      Vector3

	AccelValid bool
	Accel      Vector3

	CompassValid bool
	Compass      Vector3

	PressureValid bool
	Pressure      float64

	TemperatureValid bool
	Temperature      float64

	HumidityValid bool
	Humidity      float64
}

// Extract copies the engine's latest result into out. The timestamp is
// copied unconditionally; every other group is copied all-or-nothing, gated
// solely by its own validity flag, so a caller can legitimately see
// "orientation valid, gyro invalid" on the same call. Groups whose flag is
// false keep whatever out already held.
//
// Extract never fails on a live handle; the error return exists for the
// closed-handle case and future fallible engines.
func (h *Handle) Extract(out *Snapshot) error {
	if h.engine == nil {
		return errcode.Wrap(errcode.Closed, "imu.Extract", nil)
	}
	r := h.engine.Result()

	out.Timestamp = r.Timestamp

	out.FusionPoseValid = r.FusionPose.Valid
	if r.FusionPose.Valid {
		out.FusionPose = r.FusionPose.Vector3
	}
	out.GyroValid = r.Gyro.Valid
	if r.Gyro.Valid {
		out.Gyro = r.Gyro.Vector3
	}
	out.AccelValid = r.Accel.Valid
	if r.Accel.Valid {
		out.Accel = r.Accel.Vector3
	}
	out.CompassValid = r.Compass.Valid
	if r.Compass.Valid {
		out.Compass = r.Compass.Vector3
	}
	out.PressureValid = r.Pressure.Valid
	if r.Pressure.Valid {
		out.Pressure = r.Pressure.Value
	}
	out.TemperatureValid = r.Temperature.Valid
	if r.Temperature.Valid {
		out.Temperature = r.Temperature.Value
	}
	out.HumidityValid = r.Humidity.Valid
	if r.Humidity.Valid {
		out.Humidity = r.Humidity.Value
	}
	return nil
}
