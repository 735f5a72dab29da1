// Package bus provides host-side I2C access in the Tx shape the chip
// drivers consume (tinygo drivers.I2C), backed by periph.io on Linux.
package bus

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"sensehat-go/errcode"
)

// I2C wraps an open periph.io bus. Tx performs a write followed by a
// repeated-start read when both buffers are provided, which is what the
// chip drivers rely on for register access.
type I2C struct {
	bus i2c.BusCloser
}

// Open initialises the periph host drivers and opens the named bus
// ("/dev/i2c-1", "1", or "" for the first available).
func Open(name string) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "bus.Open", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errcode.Wrap(errcode.BusError, "bus.Open", err)
	}
	return &I2C{bus: b}, nil
}

// Tx satisfies the tinygo drivers I2C interface.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// Close releases the underlying bus.
func (b *I2C) Close() error {
	return b.bus.Close()
}
