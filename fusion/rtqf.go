package fusion

import (
	"math"

	"sensehat-go/imu"
	"sensehat-go/x/mathx"
)

// rtqf is a quaternion pose filter: gyro rates are integrated for the
// prediction and the result is pulled toward the accel/compass-derived
// pose by a fixed fraction per update (the slerp power, the engine's
// filter gain). Small gain favours the smooth gyro path; gain 1 trusts
// the noisy absolute measurement completely.
type rtqf struct {
	q      quaternion
	power  float64
	inited bool
}

func (f *rtqf) setGain(g float64) {
	f.power = mathx.Clamp(g, 0, 1)
}

// update advances the pose one cycle. Any combination of inputs may be
// invalid; the pose is produced as long as at least one source contributed,
// otherwise ok is false.
func (f *rtqf) update(gyro, accel, compass imu.OptVector, dt float64) (pose imu.Vector3, ok bool) {
	if !gyro.Valid && !accel.Valid && !compass.Valid {
		return imu.Vector3{}, false
	}

	if gyro.Valid && f.inited && dt > 0 {
		f.q = f.q.integrate(gyro.X, gyro.Y, gyro.Z, dt)
	}

	if accel.Valid || compass.Valid {
		roll, pitch, yaw := f.q.euler()
		if accel.Valid {
			roll, pitch = accelPose(accel.Vector3)
		}
		if compass.Valid {
			yaw = compassYaw(compass.Vector3, roll, pitch)
		}
		m := fromEuler(roll, pitch, yaw)
		if !f.inited {
			f.q = m
			f.inited = true
		} else {
			f.q = f.q.nudge(m, f.power)
		}
	} else if !f.inited {
		// Gyro-only startup: hold level until an absolute reference shows up.
		f.q = quaternion{w: 1}
		f.inited = true
	}

	r, p, y := f.q.euler()
	return imu.Vector3{X: r, Y: p, Z: y}, true
}

// accelPose derives roll and pitch from the gravity vector (accel in g).
func accelPose(a imu.Vector3) (roll, pitch float64) {
	roll = math.Atan2(a.Y, a.Z)
	pitch = math.Atan2(-a.X, math.Sqrt(a.Y*a.Y+a.Z*a.Z))
	return roll, pitch
}

// compassYaw derives a tilt-compensated heading from the magnetic field.
func compassYaw(m imu.Vector3, roll, pitch float64) float64 {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	mx := m.X*cp + m.Z*sp
	my := m.X*sr*sp + m.Y*cr - m.Z*sr*cp
	return math.Atan2(-my, mx)
}

type quaternion struct {
	w, x, y, z float64
}

func fromEuler(roll, pitch, yaw float64) quaternion {
	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)
	return quaternion{
		w: cr*cp*cy + sr*sp*sy,
		x: sr*cp*cy - cr*sp*sy,
		y: cr*sp*cy + sr*cp*sy,
		z: cr*cp*sy - sr*sp*cy,
	}.normalized()
}

func (q quaternion) euler() (roll, pitch, yaw float64) {
	roll = math.Atan2(2*(q.w*q.x+q.y*q.z), 1-2*(q.x*q.x+q.y*q.y))
	s := 2 * (q.w*q.y - q.z*q.x)
	s = mathx.Clamp(s, -1, 1)
	pitch = math.Asin(s)
	yaw = math.Atan2(2*(q.w*q.z+q.x*q.y), 1-2*(q.y*q.y+q.z*q.z))
	return roll, pitch, yaw
}

// integrate applies body rates (rad/s) over dt seconds.
func (q quaternion) integrate(gx, gy, gz, dt float64) quaternion {
	h := dt / 2
	return quaternion{
		w: q.w - h*(gx*q.x+gy*q.y+gz*q.z),
		x: q.x + h*(gx*q.w+gz*q.y-gy*q.z),
		y: q.y + h*(gy*q.w-gz*q.x+gx*q.z),
		z: q.z + h*(gz*q.w+gy*q.x-gx*q.y),
	}.normalized()
}

// nudge moves q toward m by fraction t, taking the short way around.
func (q quaternion) nudge(m quaternion, t float64) quaternion {
	dot := q.w*m.w + q.x*m.x + q.y*m.y + q.z*m.z
	if dot < 0 {
		m = quaternion{w: -m.w, x: -m.x, y: -m.y, z: -m.z}
	}
	return quaternion{
		w: q.w + (m.w-q.w)*t,
		x: q.x + (m.x-q.x)*t,
		y: q.y + (m.y-q.y)*t,
		z: q.z + (m.z-q.z)*t,
	}.normalized()
}

func (q quaternion) normalized() quaternion {
	n := math.Sqrt(q.w*q.w + q.x*q.x + q.y*q.y + q.z*q.z)
	if n == 0 {
		return quaternion{w: 1}
	}
	return quaternion{w: q.w / n, x: q.x / n, y: q.y / n, z: q.z / n}
}
