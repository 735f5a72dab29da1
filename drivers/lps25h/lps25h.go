// Package lps25h provides a driver for the LPS25H barometric pressure and
// temperature sensor. The init sequence matches RTIMULib: 25 Hz output,
// high-resolution averaging, FIFO mean mode over 32 samples.
//
// The chip runs its own conversion cycle; Collect is a non-blocking status
// poll that returns ErrNotReady when no fresh sample is available.
package lps25h

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address on the Sense HAT.
const Address = 0x5C

// Registers.
const (
	regResConf   = 0x10
	regWhoAmI    = 0x0F
	regCtrl1     = 0x20
	regCtrl2     = 0x21
	regStatus    = 0x27
	regPressXL   = 0x28
	regPressL    = 0x29
	regPressH    = 0x2A
	regTempL     = 0x2B
	regTempH     = 0x2C
	regFIFOCtrl  = 0x2E

	whoAmI = 0xBD

	statusTempReady  = 0x01
	statusPressReady = 0x02
)

// Errors returned by the driver.
var (
	ErrNotReady    = errors.New("lps25h: not ready")
	ErrWrongDevice = errors.New("lps25h: unexpected WHO_AM_I")
)

// Device wraps an I2C connection to an LPS25H.
type Device struct {
	bus     drivers.I2C
	Address uint16

	w [2]byte
	r [1]byte
}

// New creates a new LPS25H connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not
// touch the device.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Connected checks the WHO_AM_I register.
func (d *Device) Connected() bool {
	id, err := d.readReg(regWhoAmI)
	return err == nil && id == whoAmI
}

// Configure initialises the device: power on at 25 Hz, pressure/temperature
// averaging, FIFO mean over 32 samples.
func (d *Device) Configure() error {
	if !d.Connected() {
		return ErrWrongDevice
	}
	for _, c := range [][2]byte{
		{regCtrl1, 0xC4},    // PD=1, ODR=25Hz, BDU
		{regResConf, 0x05},  // pressure 64-sample avg, temp 16-sample avg
		{regFIFOCtrl, 0xC0}, // FIFO mean mode, 32 samples
		{regCtrl2, 0x40},    // FIFO enable
	} {
		if err := d.writeReg(c[0], c[1]); err != nil {
			return err
		}
	}
	return nil
}

// Status reads and returns the status byte.
func (d *Device) Status() (byte, error) {
	return d.readReg(regStatus)
}

// Sample holds one raw pressure/temperature pair. RawTemp is meaningful
// only once TempValid is set; callers reusing a Sample across Collect calls
// keep the last refreshed temperature.
type Sample struct {
	RawPressure uint32 // 24-bit, 4096 LSB/hPa
	RawTemp     int16  // 480 LSB/°C, offset 42.5°C
	TempValid   bool
}

// HPa converts the raw pressure to hectopascals.
func (s Sample) HPa() float64 { return float64(s.RawPressure) / 4096.0 }

// Celsius converts the raw temperature to degrees C.
func (s Sample) Celsius() float64 { return float64(s.RawTemp)/480.0 + 42.5 }

// Collect attempts to read one measurement. If the chip has no fresh
// pressure sample, ErrNotReady is returned. The temperature field is only
// refreshed when its own ready bit is set; RawTemp is then the previous
// value and callers relying on temperature should check CollectTemp.
func (d *Device) Collect(out *Sample) error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&statusPressReady == 0 {
		return ErrNotReady
	}
	var raw uint32
	for i, reg := range []byte{regPressXL, regPressL, regPressH} {
		b, err := d.readReg(reg)
		if err != nil {
			return err
		}
		raw |= uint32(b) << (8 * i)
	}
	out.RawPressure = raw
	if st&statusTempReady != 0 {
		t, err := d.collectTemp()
		if err != nil {
			return err
		}
		out.RawTemp = t
		out.TempValid = true
	}
	return nil
}

// CollectTemp reads the temperature alone, ErrNotReady when stale.
func (d *Device) CollectTemp() (int16, error) {
	st, err := d.Status()
	if err != nil {
		return 0, err
	}
	if st&statusTempReady == 0 {
		return 0, ErrNotReady
	}
	return d.collectTemp()
}

func (d *Device) collectTemp() (int16, error) {
	lo, err := d.readReg(regTempL)
	if err != nil {
		return 0, err
	}
	hi, err := d.readReg(regTempH)
	if err != nil {
		return 0, err
	}
	return int16(uint16(lo) | uint16(hi)<<8), nil
}

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0], d.w[1] = reg, val
	return d.bus.Tx(d.Address, d.w[:2], nil)
}
