package fusion

import (
	"math"
	"testing"

	"sensehat-go/imu"
)

func vec(x, y, z float64) imu.OptVector {
	return imu.OptVector{Valid: true, Vector3: imu.Vector3{X: x, Y: y, Z: z}}
}

func TestSetGainClamps(t *testing.T) {
	var f rtqf
	f.setGain(5)
	if f.power != 1 {
		t.Fatalf("power = %v, want 1", f.power)
	}
	f.setGain(-1)
	if f.power != 0 {
		t.Fatalf("power = %v, want 0", f.power)
	}
}

func TestUpdateNoInputsNoPose(t *testing.T) {
	var f rtqf
	f.setGain(0.02)
	if _, ok := f.update(imu.OptVector{}, imu.OptVector{}, imu.OptVector{}, 0.01); ok {
		t.Fatal("pose produced with no valid inputs")
	}
}

func TestLevelAccelGivesLevelPose(t *testing.T) {
	var f rtqf
	f.setGain(0.02)
	pose, ok := f.update(imu.OptVector{}, vec(0, 0, 1), imu.OptVector{}, 0.01)
	if !ok {
		t.Fatal("no pose from valid accel")
	}
	if math.Abs(pose.X) > 1e-9 || math.Abs(pose.Y) > 1e-9 {
		t.Fatalf("level accel gave roll/pitch %v/%v", pose.X, pose.Y)
	}
}

func TestAccelConvergesToTilt(t *testing.T) {
	var f rtqf
	f.setGain(0.1)
	// Gravity along +Y: roll = atan2(1, 0) = π/2.
	var pose imu.Vector3
	for i := 0; i < 200; i++ {
		pose, _ = f.update(imu.OptVector{}, vec(0, 1, 0), imu.OptVector{}, 0.01)
	}
	if math.Abs(pose.X-math.Pi/2) > 0.02 {
		t.Fatalf("roll = %v, want ~%v", pose.X, math.Pi/2)
	}
}

func TestGyroIntegratesYaw(t *testing.T) {
	var f rtqf
	f.setGain(0.02)
	// Level start from an absolute reference.
	f.update(imu.OptVector{}, vec(0, 0, 1), imu.OptVector{}, 0)

	// Spin about Z at π/4 rad/s for 2 s, gyro only.
	var pose imu.Vector3
	var ok bool
	for i := 0; i < 200; i++ {
		pose, ok = f.update(vec(0, 0, math.Pi/4), imu.OptVector{}, imu.OptVector{}, 0.01)
	}
	if !ok {
		t.Fatal("no pose from gyro-only updates")
	}
	if math.Abs(pose.Z-math.Pi/2) > 0.05 {
		t.Fatalf("yaw = %v, want ~%v", pose.Z, math.Pi/2)
	}
}

func TestCompassSetsHeading(t *testing.T) {
	var f rtqf
	f.setGain(0.02)
	// Field along +X with no tilt: heading 0.
	pose, ok := f.update(imu.OptVector{}, vec(0, 0, 1), vec(30, 0, 0), 0.01)
	if !ok {
		t.Fatal("no pose from accel+compass")
	}
	if math.Abs(pose.Z) > 1e-9 {
		t.Fatalf("yaw = %v, want 0", pose.Z)
	}

	// Field along -Y: heading π/2 with the aviation sign convention used
	// by compassYaw.
	var g rtqf
	g.setGain(0.02)
	pose, _ = g.update(imu.OptVector{}, vec(0, 0, 1), vec(0, -30, 0), 0.01)
	if math.Abs(pose.Z-math.Pi/2) > 1e-9 {
		t.Fatalf("yaw = %v, want %v", pose.Z, math.Pi/2)
	}
}

func TestEulerQuaternionRoundTrip(t *testing.T) {
	for _, e := range [][3]float64{
		{0, 0, 0},
		{0.3, -0.2, 1.1},
		{-1.0, 0.5, -2.0},
	} {
		q := fromEuler(e[0], e[1], e[2])
		r, p, y := q.euler()
		if math.Abs(r-e[0]) > 1e-9 || math.Abs(p-e[1]) > 1e-9 || math.Abs(y-e[2]) > 1e-9 {
			t.Fatalf("round trip %v -> %v %v %v", e, r, p, y)
		}
	}
}
