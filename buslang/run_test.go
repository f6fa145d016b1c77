package buslang_test

import (
	"testing"

	"twibus/bus"
	"twibus/buslang"
	"twibus/sim"
)

func newTestBus(address uint8) (*bus.Master, *sim.Hardware, *sim.MemoryDevice) {
	hw := sim.NewHardware()
	dev := sim.NewMemoryDevice()
	hw.Attach(address, dev)
	return bus.New(hw), hw, dev
}

// The color-sensor enable sequence: one write transaction, a repeated
// start, and a single last-byte read.
func TestRunEnableSequenceTrace(t *testing.T) {
	m, hw, _ := newTestBus(0x29) // 0x52>>1

	slots := make([]byte, 1)
	n, err := buslang.Run(m, "[ 0x52 0x80 0x03 [ 0x53 s ]", slots, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 1 {
		t.Errorf("readCount = %d, want 1", n)
	}

	want := []sim.Event{
		{Kind: sim.EventStart},
		{Kind: sim.EventAddress, Value: 0x52, Ack: true},
		{Kind: sim.EventWrite, Value: 0x80, Ack: true},
		{Kind: sim.EventWrite, Value: 0x03, Ack: true},
		{Kind: sim.EventRepStart},
		{Kind: sim.EventAddress, Value: 0x53, Ack: true},
		{Kind: sim.EventRead, Value: 0x00, Ack: false},
		{Kind: sim.EventStop},
	}
	assertJournal(t, hw, want)
}

// The light-sensor word read: two reads, RequestMore then LastByte, landing
// in the caller's slots in order.
func TestRunWordReadModes(t *testing.T) {
	m, hw, dev := newTestBus(0x39) // 0x72>>1

	// The command points the device at register 0xAC; prime the word
	// that lives there.
	dev.Mem[0xAC] = 0x34
	dev.Mem[0xAD] = 0x12

	slots := make([]byte, 2)
	n, err := buslang.Run(m, "[0x72 0xAC [0x73 r s]", slots, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 2 {
		t.Errorf("readCount = %d, want 2", n)
	}
	if slots[0] != 0x34 || slots[1] != 0x12 {
		t.Errorf("slots = %#02x %#02x, want 0x34 0x12", slots[0], slots[1])
	}

	var reads []sim.Event
	for _, e := range hw.Journal {
		if e.Kind == sim.EventRead {
			reads = append(reads, e)
		}
	}
	if len(reads) != 2 {
		t.Fatalf("expected 2 read events, got %v", hw.Journal)
	}
	if !reads[0].Ack {
		t.Error("first read should acknowledge (RequestMore)")
	}
	if reads[1].Ack {
		t.Error("second read should withhold acknowledge (LastByte)")
	}
}

func TestRunWriteArgs(t *testing.T) {
	m, _, dev := newTestBus(0x39)
	dev.Mem[0x8A] = 0x50

	slots := make([]byte, 1)
	n, err := buslang.Run(m, "[ 0x72 w [ 0x73 s ]", slots, []byte{0x8A})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 1 {
		t.Errorf("readCount = %d, want 1", n)
	}
	if slots[0] != 0x50 {
		t.Errorf("read %#02x, want 0x50", slots[0])
	}
}

// Identical program and operands produce identical traces.
func TestRunDeterministicTrace(t *testing.T) {
	m, hw, dev := newTestBus(0x39)
	dev.Mem[0xAC] = 0xBE
	dev.Mem[0xAD] = 0xEF

	p := buslang.Compile("[0x72 0xAC [0x73 r s]")
	e := buslang.Executor{Master: m}

	run := func() ([]byte, []sim.Event) {
		hw.ResetJournal()
		slots := make([]byte, 2)
		if _, err := e.Run(p, slots, nil); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		trace := make([]sim.Event, len(hw.Journal))
		copy(trace, hw.Journal)
		return slots, trace
	}

	firstSlots, firstTrace := run()
	secondSlots, secondTrace := run()

	if len(firstTrace) != len(secondTrace) {
		t.Fatalf("trace lengths differ: %d vs %d", len(firstTrace), len(secondTrace))
	}
	for i := range firstTrace {
		if firstTrace[i] != secondTrace[i] {
			t.Errorf("trace[%d] differs: %v vs %v", i, firstTrace[i], secondTrace[i])
		}
	}
	if firstSlots[0] != secondSlots[0] || firstSlots[1] != secondSlots[1] {
		t.Errorf("read results differ: %v vs %v", firstSlots, secondSlots)
	}
}

func TestRunOperandCountChecked(t *testing.T) {
	m, _, _ := newTestBus(0x39)
	e := buslang.Executor{Master: m}

	p := buslang.Compile("[ 0x72 w [ 0x73 r s ]")

	if _, err := e.Run(p, make([]byte, 1), []byte{0x8A}); err != buslang.ErrReadSlotCount {
		t.Errorf("short read slots: expected ErrReadSlotCount, got %v", err)
	}
	if _, err := e.Run(p, make([]byte, 2), nil); err != buslang.ErrWriteValueCount {
		t.Errorf("missing write value: expected ErrWriteValueCount, got %v", err)
	}
	if _, err := e.Run(p, make([]byte, 2), []byte{0x8A}); err != nil {
		t.Errorf("matching operands: unexpected error %v", err)
	}
}

func TestRunDelayHook(t *testing.T) {
	m, _, _ := newTestBus(0x39)

	delays := 0
	e := buslang.Executor{Master: m, Delay: func() { delays++ }}

	if _, err := e.Run(buslang.Compile("& & &"), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if delays != 3 {
		t.Errorf("delay hook ran %d times, want 3", delays)
	}
}

func assertJournal(t *testing.T, hw *sim.Hardware, want []sim.Event) {
	t.Helper()
	if len(hw.Journal) != len(want) {
		t.Fatalf("journal length %d, want %d: %v", len(hw.Journal), len(want), hw.Journal)
	}
	for i, e := range want {
		if hw.Journal[i] != e {
			t.Errorf("journal[%d] = %v, want %v", i, hw.Journal[i], e)
		}
	}
}
