package lps25h

import "testing"

// fakeBus is a register-map I2C double. A one-byte write selects the
// register; reads auto-increment from it.
type fakeBus struct {
	regs map[byte]byte
	err  error
}

func newFakeBus() *fakeBus { return &fakeBus{regs: make(map[byte]byte)} }

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	if addr != Address {
		panic("unexpected address")
	}
	switch {
	case len(w) == 2 && len(r) == 0:
		b.regs[w[0]] = w[1]
	case len(w) == 1:
		for i := range r {
			r[i] = b.regs[w[0]+byte(i)]
		}
	}
	return nil
}

func newReadyDevice(t *testing.T) (*fakeBus, *Device) {
	t.Helper()
	bus := newFakeBus()
	bus.regs[regWhoAmI] = whoAmI
	d := New(bus)
	if err := d.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	return bus, &d
}

func TestConfigureWritesInitSequence(t *testing.T) {
	bus, _ := newReadyDevice(t)
	for reg, want := range map[byte]byte{
		regCtrl1:    0xC4,
		regResConf:  0x05,
		regFIFOCtrl: 0xC0,
		regCtrl2:    0x40,
	} {
		if got := bus.regs[reg]; got != want {
			t.Fatalf("reg 0x%02X = 0x%02X, want 0x%02X", reg, got, want)
		}
	}
}

func TestConfigureRejectsWrongDevice(t *testing.T) {
	bus := newFakeBus()
	bus.regs[regWhoAmI] = 0x00
	d := New(bus)
	if err := d.Configure(); err != ErrWrongDevice {
		t.Fatalf("Configure error = %v, want ErrWrongDevice", err)
	}
}

func TestCollectNotReady(t *testing.T) {
	_, d := newReadyDevice(t)
	var s Sample
	if err := d.Collect(&s); err != ErrNotReady {
		t.Fatalf("Collect error = %v, want ErrNotReady", err)
	}
}

func TestCollectConverts(t *testing.T) {
	bus, d := newReadyDevice(t)
	bus.regs[regStatus] = statusPressReady | statusTempReady
	// 1000 hPa = 4096000 LSB = 0x3E8000.
	bus.regs[regPressXL] = 0x00
	bus.regs[regPressL] = 0x80
	bus.regs[regPressH] = 0x3E
	// 25°C: (25-42.5)*480 = -8400 = 0xDF30.
	bus.regs[regTempL] = 0x30
	bus.regs[regTempH] = 0xDF

	var s Sample
	if err := d.Collect(&s); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got := s.HPa(); got != 1000.0 {
		t.Fatalf("HPa = %v, want 1000", got)
	}
	if !s.TempValid {
		t.Fatal("TempValid false after fresh temp sample")
	}
	if got := s.Celsius(); got != 25.0 {
		t.Fatalf("Celsius = %v, want 25", got)
	}
}

func TestCollectCarriesTemperatureForward(t *testing.T) {
	bus, d := newReadyDevice(t)
	bus.regs[regStatus] = statusPressReady | statusTempReady
	bus.regs[regTempL] = 0x30
	bus.regs[regTempH] = 0xDF

	var s Sample
	if err := d.Collect(&s); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	// Next cycle: pressure fresh, temperature stale. The reused sample must
	// keep the previous temperature.
	bus.regs[regStatus] = statusPressReady
	bus.regs[regTempL] = 0xFF
	if err := d.Collect(&s); err != nil {
		t.Fatalf("second Collect failed: %v", err)
	}
	if got := s.Celsius(); got != 25.0 {
		t.Fatalf("stale temp = %v, want carried-forward 25", got)
	}
}

func TestCollectTempAlone(t *testing.T) {
	bus, d := newReadyDevice(t)
	if _, err := d.CollectTemp(); err != ErrNotReady {
		t.Fatalf("CollectTemp error = %v, want ErrNotReady", err)
	}
	bus.regs[regStatus] = statusTempReady
	bus.regs[regTempL] = 0x30
	bus.regs[regTempH] = 0xDF
	raw, err := d.CollectTemp()
	if err != nil {
		t.Fatalf("CollectTemp failed: %v", err)
	}
	if raw != -8400 {
		t.Fatalf("raw temp = %d, want -8400", raw)
	}
}
