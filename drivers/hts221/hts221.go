// Package hts221 provides a driver for the HTS221 relative humidity and
// temperature sensor. The chip ships factory calibration points in its
// register file; Configure reads them once and derives the linear
// slope/offset pair used to convert raw counts.
package hts221

import (
	"errors"

	"tinygo.org/x/drivers"

	"sensehat-go/x/mathx"
)

// I2C address on the Sense HAT.
const Address = 0x5F

// Registers.
const (
	regWhoAmI  = 0x0F
	regAvConf  = 0x10
	regCtrl1   = 0x20
	regStatus  = 0x27
	regHumOutL = 0x28
	regHumOutH = 0x29
	regTmpOutL = 0x2A
	regTmpOutH = 0x2B

	// Calibration registers.
	regH0rH2   = 0x30
	regH1rH2   = 0x31
	regT0degC8 = 0x32
	regT1degC8 = 0x33
	regT1T0msb = 0x35
	regH0T0Out = 0x36
	regH1T0Out = 0x3A
	regT0Out   = 0x3C
	regT1Out   = 0x3E

	whoAmI = 0xBC

	statusTempReady = 0x01
	statusHumReady  = 0x02
)

// Errors returned by the driver.
var (
	ErrNotReady    = errors.New("hts221: not ready")
	ErrWrongDevice = errors.New("hts221: unexpected WHO_AM_I")
	ErrBadCal      = errors.New("hts221: degenerate calibration")
)

// Device wraps an I2C connection to an HTS221.
type Device struct {
	bus     drivers.I2C
	Address uint16

	// Linear conversion derived from factory calibration.
	tempM, tempC float64
	humM, humC   float64

	w [2]byte
	r [1]byte
}

// New creates a new HTS221 connection. The I2C bus must already be
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

// Configure powers the device on at 12.5 Hz with block data update and
// loads the factory calibration (init values per RTIMULib).
func (d *Device) Configure() error {
	if !d.Connected() {
		return ErrWrongDevice
	}
	if err := d.writeReg(regCtrl1, 0x87); err != nil { // PD, BDU, 12.5Hz
		return err
	}
	if err := d.writeReg(regAvConf, 0x1B); err != nil { // avg: 256 temp, 64 hum
		return err
	}
	return d.loadCalibration()
}

func (d *Device) loadCalibration() error {
	t1t0, err := d.readReg(regT1T0msb)
	if err != nil {
		return err
	}
	// T0, T1 are 10-bit values in 1/8 °C, split across registers.
	t0Lo, err := d.readReg(regT0degC8)
	if err != nil {
		return err
	}
	t1Lo, err := d.readReg(regT1degC8)
	if err != nil {
		return err
	}
	t0 := float64(int16(uint16(t0Lo)|uint16(t1t0&0x03)<<8)) / 8.0
	t1 := float64(int16(uint16(t1Lo)|uint16(t1t0&0x0C)<<6)) / 8.0

	t0Out, err := d.readS16(regT0Out)
	if err != nil {
		return err
	}
	t1Out, err := d.readS16(regT1Out)
	if err != nil {
		return err
	}

	h0Half, err := d.readReg(regH0rH2)
	if err != nil {
		return err
	}
	h1Half, err := d.readReg(regH1rH2)
	if err != nil {
		return err
	}
	h0 := float64(h0Half) / 2.0
	h1 := float64(h1Half) / 2.0

	h0Out, err := d.readS16(regH0T0Out)
	if err != nil {
		return err
	}
	h1Out, err := d.readS16(regH1T0Out)
	if err != nil {
		return err
	}

	if t1Out == t0Out || h1Out == h0Out {
		return ErrBadCal
	}
	d.tempM = (t1 - t0) / float64(t1Out-t0Out)
	d.tempC = t0 - d.tempM*float64(t0Out)
	d.humM = (h1 - h0) / float64(h1Out-h0Out)
	d.humC = h0 - d.humM*float64(h0Out)
	return nil
}

// Status reads and returns the status byte.
func (d *Device) Status() (byte, error) {
	return d.readReg(regStatus)
}

// Sample holds one converted humidity/temperature pair. Celsius is
// meaningful only once TempValid is set; callers reusing a Sample across
// Collect calls keep the last refreshed temperature.
type Sample struct {
	Humidity  float64 // %RH, clamped to [0,100]
	Celsius   float64
	TempValid bool
}

// Collect attempts to read one measurement. ErrNotReady is returned while
// the chip has no fresh humidity sample. Temperature is refreshed only when
// its own ready bit is set.
func (d *Device) Collect(out *Sample) error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&statusHumReady == 0 {
		return ErrNotReady
	}
	raw, err := d.readS16(regHumOutL)
	if err != nil {
		return err
	}
	out.Humidity = mathx.Clamp(float64(raw)*d.humM+d.humC, 0, 100)
	if st&statusTempReady != 0 {
		t, err := d.readS16(regTmpOutL)
		if err != nil {
			return err
		}
		out.Celsius = float64(t)*d.tempM + d.tempC
		out.TempValid = true
	}
	return nil
}

func (d *Device) readS16(reg byte) (int16, error) {
	lo, err := d.readReg(reg)
	if err != nil {
		return 0, err
	}
	hi, err := d.readReg(reg + 1)
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
