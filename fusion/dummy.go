package fusion

import (
	"sensehat-go/errcode"
	"sensehat-go/imu"
)

// Dummy is the no-hardware engine: it initialises cleanly, never produces
// data and leaves every group invalid. Useful on machines without the
// sensor board and as the engine of last resort in tooling.
type Dummy struct {
	gain    float64
	enabled map[imu.Sensor]bool
	closed  bool
}

// NewDummy returns a fresh no-hardware engine.
func NewDummy() *Dummy {
	return &Dummy{enabled: make(map[imu.Sensor]bool)}
}

func (d *Dummy) Init() error { return nil }

func (d *Dummy) SetFilterGain(gain float64) { d.gain = gain }

func (d *Dummy) SetEnable(s imu.Sensor, on bool) { d.enabled[s] = on }

// Read never has data.
func (d *Dummy) Read() bool { return false }

// Result is an empty reading: timestamp zero, every group invalid.
func (d *Dummy) Result() imu.Reading { return imu.Reading{} }

func (d *Dummy) Close() error {
	if d.closed {
		return errcode.Wrap(errcode.Closed, "fusion.Close", nil)
	}
	d.closed = true
	return nil
}
