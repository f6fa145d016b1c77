package sim

import (
	"testing"

	"twibus/bus"
)

// Drive the simulated registers directly, the way the real driver does,
// and check the status codes the model reports.
func TestHardwareStatusSequence(t *testing.T) {
	hw := NewHardware()
	hw.Attach(0x50, NewMemoryDevice())

	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlStart | bus.CtrlEnable)
	if hw.ReadControl()&bus.CtrlIntFlag == 0 {
		t.Fatal("start did not complete")
	}
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusStart {
		t.Fatalf("status after start = %#02x, want %#02x", st, bus.StatusStart)
	}

	hw.WriteData(0x50 << 1)
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable)
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusMTSlaveAck {
		t.Fatalf("status after address = %#02x, want %#02x", st, bus.StatusMTSlaveAck)
	}

	hw.WriteData(0x10)
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable)
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusMTDataAck {
		t.Fatalf("status after data = %#02x, want %#02x", st, bus.StatusMTDataAck)
	}

	// Another start on a busy bus reports a repeated start.
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlStart | bus.CtrlEnable)
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusRepStart {
		t.Fatalf("status after second start = %#02x, want %#02x", st, bus.StatusRepStart)
	}

	hw.WriteData(0x50<<1 | 1)
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable)
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusMRSlaveAck {
		t.Fatalf("status after read address = %#02x, want %#02x", st, bus.StatusMRSlaveAck)
	}

	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable) // no ack: last byte
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusMRDataNack {
		t.Fatalf("status after read = %#02x, want %#02x", st, bus.StatusMRDataNack)
	}

	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlStop | bus.CtrlEnable)
	if hw.ReadControl()&bus.CtrlStop != 0 {
		t.Fatal("stop bit did not self-clear")
	}
}

func TestHardwareAbsentAddressNacks(t *testing.T) {
	hw := NewHardware()

	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlStart | bus.CtrlEnable)
	hw.WriteData(0x23 << 1)
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable)
	if st := hw.ReadStatus() & bus.StatusMask; st != bus.StatusMTSlaveNack {
		t.Fatalf("status = %#02x, want %#02x", st, bus.StatusMTSlaveNack)
	}

	// Reads from nobody return a released (all ones) bus.
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlStart | bus.CtrlEnable)
	hw.WriteData(0x23<<1 | 1)
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable)
	hw.WriteControl(bus.CtrlIntFlag | bus.CtrlEnable)
	if hw.ReadData() != 0xFF {
		t.Errorf("read from absent device = %#02x, want 0xFF", hw.ReadData())
	}
}

func TestMemoryDevicePointerSemantics(t *testing.T) {
	d := NewMemoryDevice()

	if !d.Address(0) {
		t.Fatal("write address refused")
	}
	d.WriteByte(0x40) // pointer
	d.WriteByte(0x11)
	d.WriteByte(0x22)

	if d.Mem[0x40] != 0x11 || d.Mem[0x41] != 0x22 {
		t.Errorf("memory = %#02x %#02x, want 0x11 0x22", d.Mem[0x40], d.Mem[0x41])
	}

	if !d.Address(0) {
		t.Fatal("second write address refused")
	}
	d.WriteByte(0x40)
	if !d.Address(1) {
		t.Fatal("read address refused")
	}
	if b := d.ReadByte(true); b != 0x11 {
		t.Errorf("first read = %#02x, want 0x11", b)
	}
	if b := d.ReadByte(false); b != 0x22 {
		t.Errorf("second read = %#02x, want 0x22", b)
	}
}

func TestMemoryDeviceNackNextAddresses(t *testing.T) {
	d := NewMemoryDevice()
	d.NackNextAddresses(2)

	if d.Address(0) {
		t.Error("first address should be refused")
	}
	if d.Address(0) {
		t.Error("second address should be refused")
	}
	if !d.Address(0) {
		t.Error("third address should be acknowledged")
	}
}
