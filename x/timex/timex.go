package timex

import "time"

// NowUs returns Unix microseconds as uint64, the timestamp unit used by
// IMU readings.
func NowUs() uint64 { return uint64(time.Now().UnixMicro()) }

// SecondsBetween converts two microsecond timestamps to an elapsed time in
// seconds. Returns 0 when the clock appears to have gone backwards.
func SecondsBetween(fromUs, toUs uint64) float64 {
	if toUs <= fromUs {
		return 0
	}
	return float64(toUs-fromUs) / 1e6
}
