package lsm9ds1

import (
	"math"
	"testing"
)

// fakeBus is a two-address register-map I2C double covering both dies.
// A one-byte write selects the register; reads auto-increment. The mag
// die's auto-increment MSB is masked off like real hardware.
type fakeBus struct {
	regs map[uint16]map[byte]byte
	err  error
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[uint16]map[byte]byte{
		Address:    {},
		AddressMag: {},
	}}
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	m := b.regs[addr]
	if m == nil {
		panic("unexpected address")
	}
	switch {
	case len(w) == 2 && len(r) == 0:
		m[w[0]&0x7F] = w[1]
	case len(w) == 1:
		reg := w[0] & 0x7F
		for i := range r {
			r[i] = m[reg+byte(i)]
		}
	}
	return nil
}

func put16(m map[byte]byte, reg byte, v int16) {
	m[reg] = byte(uint16(v))
	m[reg+1] = byte(uint16(v) >> 8)
}

func newReadyDevice(t *testing.T, withMag bool) (*fakeBus, *Device) {
	t.Helper()
	bus := newFakeBus()
	bus.regs[Address][regAGWhoAmI] = agWhoAmI
	if withMag {
		bus.regs[AddressMag][regMagWhoAmI] = magWhoAmI
	}
	d := New(bus, Config{})
	if err := d.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	return bus, &d
}

func approx(got, want float64) bool { return math.Abs(got-want) < 1e-9 }

func TestConfigureWritesInitSequence(t *testing.T) {
	bus, d := newReadyDevice(t, true)
	ag := bus.regs[Address]
	if ag[regCtrl1G] != 0x60 || ag[regCtrl6XL] != 0x60 || ag[regCtrl8] != 0x44 {
		t.Fatalf("accel/gyro init registers wrong: %v", ag)
	}
	mag := bus.regs[AddressMag]
	if mag[regCtrl1M] != 0x7C || mag[regCtrl3M] != 0x00 {
		t.Fatalf("mag init registers wrong: %v", mag)
	}
	if !d.HasMag() {
		t.Fatal("HasMag false with mag die present")
	}
}

func TestConfigureRejectsWrongDevice(t *testing.T) {
	bus := newFakeBus()
	d := New(bus, Config{})
	if err := d.Configure(); err != ErrWrongDevice {
		t.Fatalf("Configure error = %v, want ErrWrongDevice", err)
	}
}

func TestConfigureToleratesMissingMag(t *testing.T) {
	_, d := newReadyDevice(t, false)
	if d.HasMag() {
		t.Fatal("HasMag true with mag die absent")
	}
}

func TestCollectNotReady(t *testing.T) {
	_, d := newReadyDevice(t, true)
	var s Sample
	if err := d.Collect(&s); err != ErrNotReady {
		t.Fatalf("Collect error = %v, want ErrNotReady", err)
	}
}

func TestCollectRawSampleSet(t *testing.T) {
	bus, d := newReadyDevice(t, true)
	ag := bus.regs[Address]
	ag[regStatusReg] = statusGyroReady | statusAccelReady
	put16(ag, regOutXLG, 1000)
	put16(ag, regOutXLG+2, -1000)
	put16(ag, regOutXLG+4, 0)
	put16(ag, regOutXLXL, 0)
	put16(ag, regOutXLXL+2, 8192)
	put16(ag, regOutXLXL+4, 16384)

	mag := bus.regs[AddressMag]
	mag[regStatusRegM] = statusMagReady
	put16(mag, regOutXLM, 100)
	put16(mag, regOutXLM+2, 200)
	put16(mag, regOutXLM+4, -300)

	var s Sample
	if err := d.Collect(&s); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if s.GX != 1000 || s.GY != -1000 || s.GZ != 0 {
		t.Fatalf("gyro raw = %d %d %d", s.GX, s.GY, s.GZ)
	}
	if s.AX != 0 || s.AY != 8192 || s.AZ != 16384 {
		t.Fatalf("accel raw = %d %d %d", s.AX, s.AY, s.AZ)
	}
	if !s.MagValid || s.MX != 100 || s.MY != 200 || s.MZ != -300 {
		t.Fatalf("mag raw = %d %d %d (valid=%v)", s.MX, s.MY, s.MZ, s.MagValid)
	}
}

func TestCollectMagStaleLeavesMagInvalid(t *testing.T) {
	bus, d := newReadyDevice(t, true)
	bus.regs[Address][regStatusReg] = statusGyroReady

	var s Sample
	if err := d.Collect(&s); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if s.MagValid {
		t.Fatal("MagValid true with no fresh mag sample")
	}
}

func TestSampleConversions(t *testing.T) {
	s := Sample{
		GX: 1000, AY: 8192, MZ: 500,
	}
	gx, _, _ := s.Gyro()
	if want := 1000 * gyroDpsPerLSB * math.Pi / 180; !approx(gx, want) {
		t.Fatalf("gyro x = %v, want %v", gx, want)
	}
	_, ay, _ := s.Accel()
	if want := 8192 * accelGPerLSB; !approx(ay, want) {
		t.Fatalf("accel y = %v, want %v", ay, want)
	}
	_, _, mz := s.Mag()
	if want := 500 * magUTPerLSB; !approx(mz, want) {
		t.Fatalf("mag z = %v, want %v", mz, want)
	}
}
