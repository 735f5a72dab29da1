// Package lsm9ds1 provides a driver for the LSM9DS1 inertial module: a
// 3-axis gyroscope and accelerometer on one die and a 3-axis magnetometer
// on a second die with its own I2C address.
//
// The driver is poll-driven: Status is a cheap data-ready check and Collect
// pulls one raw sample set without blocking, returning ErrNotReady when the
// chip has produced nothing new since the last read.
package lsm9ds1

import (
	"errors"
	"math"

	"tinygo.org/x/drivers"
)

// Default I2C addresses on the Sense HAT.
const (
	Address    = 0x6A // accelerometer/gyroscope die
	AddressMag = 0x1C // magnetometer die
)

// Errors returned by the driver.
var (
	ErrNotReady    = errors.New("lsm9ds1: not ready")
	ErrWrongDevice = errors.New("lsm9ds1: unexpected WHO_AM_I")
)

// Config controls device addressing. Zero values select the Sense HAT
// defaults.
type Config struct {
	Address    uint16
	AddressMag uint16
}

// Device wraps the two I2C connections of an LSM9DS1.
type Device struct {
	bus     drivers.I2C
	Address uint16
	AddrMag uint16

	magOK bool // magnetometer die answered at Configure time

	w   [2]byte
	buf [6]byte // burst buffer for one 3-axis register block
}

// New creates a new LSM9DS1 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not
// touch the device.
func New(bus drivers.I2C, cfg Config) Device {
	addr := cfg.Address
	if addr == 0 {
		addr = Address
	}
	mag := cfg.AddressMag
	if mag == 0 {
		mag = AddressMag
	}
	return Device{bus: bus, Address: addr, AddrMag: mag}
}

// Connected checks the accel/gyro die WHO_AM_I register.
func (d *Device) Connected() bool {
	id, err := d.readReg(d.Address, regAGWhoAmI)
	return err == nil && id == agWhoAmI
}

// MagConnected checks the magnetometer die WHO_AM_I register.
func (d *Device) MagConnected() bool {
	id, err := d.readReg(d.AddrMag, regMagWhoAmI)
	return err == nil && id == magWhoAmI
}

// Configure initialises both dies: gyro and accel at 119 Hz with the
// default full scales (±245 dps, ±2 g), magnetometer continuous at 80 Hz
// (±4 gauss). A missing magnetometer die is tolerated; Sample.MagValid
// stays false in that case.
func (d *Device) Configure() error {
	if !d.Connected() {
		return ErrWrongDevice
	}
	for _, c := range [][2]byte{
		{regCtrl1G, 0x60},  // gyro ODR 119Hz, 245 dps
		{regCtrl6XL, 0x60}, // accel ODR 119Hz, ±2g
		{regCtrl8, 0x44},   // BDU, register auto-increment
	} {
		if err := d.writeReg(d.Address, c[0], c[1]); err != nil {
			return err
		}
	}

	d.magOK = d.MagConnected()
	if !d.magOK {
		return nil
	}
	for _, c := range [][2]byte{
		{regCtrl1M, 0x7C}, // ultra-high performance XY, ODR 80Hz
		{regCtrl2M, 0x00}, // ±4 gauss
		{regCtrl4M, 0x0C}, // ultra-high performance Z
		{regCtrl3M, 0x00}, // continuous conversion
	} {
		if err := d.writeReg(d.AddrMag, c[0], c[1]); err != nil {
			return err
		}
	}
	return nil
}

// HasMag reports whether the magnetometer die was found at Configure time.
func (d *Device) HasMag() bool { return d.magOK }

// Status reads the accel/gyro status byte. Bit 0 is accel data ready,
// bit 1 gyro data ready.
func (d *Device) Status() (byte, error) {
	return d.readReg(d.Address, regStatusReg)
}

// Sample holds one raw sample set. Mag axes are only meaningful when
// MagValid is set (magnetometer missing or no fresh mag sample).
type Sample struct {
	GX, GY, GZ int16 // gyro, 8.75 mdps/LSB
	AX, AY, AZ int16 // accel, 0.061 mg/LSB
	MX, MY, MZ int16 // mag, 0.14 mgauss/LSB
	MagValid   bool
}

// Gyro converts the raw rates to rad/s.
func (s Sample) Gyro() (x, y, z float64) {
	k := gyroDpsPerLSB * math.Pi / 180.0
	return float64(s.GX) * k, float64(s.GY) * k, float64(s.GZ) * k
}

// Accel converts the raw accelerations to g.
func (s Sample) Accel() (x, y, z float64) {
	return float64(s.AX) * accelGPerLSB, float64(s.AY) * accelGPerLSB, float64(s.AZ) * accelGPerLSB
}

// Mag converts the raw field to µT.
func (s Sample) Mag() (x, y, z float64) {
	return float64(s.MX) * magUTPerLSB, float64(s.MY) * magUTPerLSB, float64(s.MZ) * magUTPerLSB
}

// Collect attempts to pull one raw sample set. ErrNotReady is returned when
// neither gyro nor accel has produced a new sample since the last Collect.
// The magnetometer runs at a lower rate; a stale mag sample leaves
// out.MagValid false without failing the call.
func (d *Device) Collect(out *Sample) error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&(statusGyroReady|statusAccelReady) == 0 {
		return ErrNotReady
	}

	if err := d.readBurst(d.Address, regOutXLG, &out.GX, &out.GY, &out.GZ); err != nil {
		return err
	}
	if err := d.readBurst(d.Address, regOutXLXL, &out.AX, &out.AY, &out.AZ); err != nil {
		return err
	}

	out.MagValid = false
	if d.magOK {
		mst, err := d.readReg(d.AddrMag, regStatusRegM)
		if err != nil {
			return err
		}
		if mst&statusMagReady != 0 {
			if err := d.readBurst(d.AddrMag, regOutXLM|magAutoIncrement,
				&out.MX, &out.MY, &out.MZ); err != nil {
				return err
			}
			out.MagValid = true
		}
	}
	return nil
}

func (d *Device) readBurst(addr uint16, reg byte, x, y, z *int16) error {
	d.w[0] = reg
	if err := d.bus.Tx(addr, d.w[:1], d.buf[:6]); err != nil {
		return err
	}
	*x = int16(uint16(d.buf[0]) | uint16(d.buf[1])<<8)
	*y = int16(uint16(d.buf[2]) | uint16(d.buf[3])<<8)
	*z = int16(uint16(d.buf[4]) | uint16(d.buf[5])<<8)
	return nil
}

func (d *Device) readReg(addr uint16, reg byte) (byte, error) {
	d.w[0] = reg
	var r [1]byte
	if err := d.bus.Tx(addr, d.w[:1], r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (d *Device) writeReg(addr uint16, reg, val byte) error {
	d.w[0], d.w[1] = reg, val
	return d.bus.Tx(addr, d.w[:2], nil)
}
