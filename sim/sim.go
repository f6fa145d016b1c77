// Package sim is a register-level software model of the two-wire master
// peripheral. It implements bus.RegisterIO, dispatches transfers to
// attached slave devices, and journals every bus operation so tests can
// assert on exact wire-level traces.
package sim

import (
	"fmt"

	"twibus/bus"
)

// EventKind classifies one journaled bus operation.
type EventKind uint8

const (
	EventStart EventKind = iota
	EventRepStart
	EventAddress // Value holds the raw address+direction byte, Ack the slave's answer
	EventWrite   // Value holds the data byte, Ack the slave's answer
	EventRead    // Value holds the data byte, Ack whether the master acknowledged
	EventStop
	EventArbitrationLost
)

// Event is one entry in the hardware journal.
type Event struct {
	Kind  EventKind
	Value byte
	Ack   bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return "START"
	case EventRepStart:
		return "REP-START"
	case EventAddress:
		return fmt.Sprintf("ADDR %#02x ack=%v", e.Value, e.Ack)
	case EventWrite:
		return fmt.Sprintf("WRITE %#02x ack=%v", e.Value, e.Ack)
	case EventRead:
		return fmt.Sprintf("READ %#02x ack=%v", e.Value, e.Ack)
	case EventStop:
		return "STOP"
	case EventArbitrationLost:
		return "ARB-LOST"
	}
	return "UNKNOWN"
}

// Slave is a simulated device on the bus. Implementations model a target's
// protocol state machine; the hardware calls them in wire order.
type Slave interface {
	// Address is called when the master addresses this device; dir uses
	// the wire encoding (0 write, 1 read). Return false to NACK.
	Address(dir uint8) bool

	// WriteByte receives one data byte; return false to NACK it.
	WriteByte(b uint8) bool

	// ReadByte supplies one data byte. ack reports whether the master
	// acknowledged it, i.e. whether it intends to read more.
	ReadByte(ack bool) uint8

	// Stop is called when the master releases the bus mid-conversation
	// with this device.
	Stop()
}

// Hardware simulates the peripheral registers. Operations complete
// synchronously, so the driver's busy-polls return on the first check.
type Hardware struct {
	control   uint8
	data      uint8
	status    uint8
	bitrate   uint8
	prescaler uint8

	slaves     map[uint8]Slave
	active     Slave
	activeDir  uint8
	started    bool
	expectAddr bool

	// Remaining start attempts that lose arbitration.
	arbLosses int

	Journal []Event
}

// NewHardware returns an idle simulated peripheral with no slaves attached.
func NewHardware() *Hardware {
	return &Hardware{slaves: make(map[uint8]Slave)}
}

// Attach puts a slave on the bus at the given 7-bit address.
func (h *Hardware) Attach(address uint8, s Slave) {
	h.slaves[address&0x7F] = s
}

// LoseArbitration makes the next n start conditions fail with an
// arbitration-lost status.
func (h *Hardware) LoseArbitration(n int) {
	h.arbLosses = n
}

// ResetJournal clears the recorded trace.
func (h *Hardware) ResetJournal() {
	h.Journal = nil
}

// Bitrate returns the last divisor written to the bit-rate register.
func (h *Hardware) Bitrate() uint8 { return h.bitrate }

// PrescalerExp returns the last prescaler exponent written.
func (h *Hardware) PrescalerExp() uint8 { return h.prescaler }

func (h *Hardware) WriteControl(bits uint8) {
	// Writing a 1 to the flag position clears it.
	h.control = bits &^ (bus.CtrlIntFlag | bus.CtrlStop)

	switch {
	case bits&bus.CtrlStart != 0:
		h.doStart()
	case bits&bus.CtrlStop != 0:
		h.doStop()
	default:
		h.doTransfer(bits&bus.CtrlEnableAck != 0)
	}
}

func (h *Hardware) ReadControl() uint8     { return h.control }
func (h *Hardware) WriteData(b uint8)      { h.data = b }
func (h *Hardware) ReadData() uint8        { return h.data }
func (h *Hardware) ReadStatus() uint8      { return h.status }
func (h *Hardware) WriteBitrate(d uint8)   { h.bitrate = d }
func (h *Hardware) WritePrescaler(p uint8) { h.prescaler = p }

func (h *Hardware) doStart() {
	if h.arbLosses > 0 {
		h.arbLosses--
		h.status = bus.StatusArbitrationLost
		h.started = false
		h.expectAddr = false
		h.record(Event{Kind: EventArbitrationLost})
		h.complete()
		return
	}

	if h.started {
		h.status = bus.StatusRepStart
		h.record(Event{Kind: EventRepStart})
	} else {
		h.status = bus.StatusStart
		h.record(Event{Kind: EventStart})
	}
	h.started = true
	h.expectAddr = true
	h.complete()
}

func (h *Hardware) doStop() {
	if h.active != nil {
		h.active.Stop()
	}
	h.active = nil
	h.started = false
	h.expectAddr = false
	h.record(Event{Kind: EventStop})
	// The stop bit self-clears; leave it cleared in h.control so the
	// driver's release-poll returns immediately. No completion flag.
}

func (h *Hardware) doTransfer(masterAck bool) {
	switch {
	case h.expectAddr:
		h.doAddress()
	case h.activeDir == 0:
		h.doWrite()
	default:
		h.doRead(masterAck)
	}
	h.complete()
}

func (h *Hardware) doAddress() {
	h.expectAddr = false
	raw := h.data
	dir := raw & 1
	h.activeDir = dir

	s, ok := h.slaves[raw>>1]
	acked := ok && s.Address(dir)
	h.record(Event{Kind: EventAddress, Value: raw, Ack: acked})

	if !acked {
		h.active = nil
		if dir == 0 {
			h.status = bus.StatusMTSlaveNack
		} else {
			h.status = bus.StatusMRSlaveNack
		}
		return
	}

	h.active = s
	if dir == 0 {
		h.status = bus.StatusMTSlaveAck
	} else {
		h.status = bus.StatusMRSlaveAck
	}
}

func (h *Hardware) doWrite() {
	acked := h.active != nil && h.active.WriteByte(h.data)
	h.record(Event{Kind: EventWrite, Value: h.data, Ack: acked})
	if acked {
		h.status = bus.StatusMTDataAck
	} else {
		h.status = bus.StatusMTDataNack
	}
}

func (h *Hardware) doRead(masterAck bool) {
	var b uint8 = 0xFF // released bus reads as all ones
	if h.active != nil {
		b = h.active.ReadByte(masterAck)
	}
	h.data = b
	h.record(Event{Kind: EventRead, Value: b, Ack: masterAck})
	if masterAck {
		h.status = bus.StatusMRDataAck
	} else {
		h.status = bus.StatusMRDataNack
	}
}

func (h *Hardware) complete() {
	h.control |= bus.CtrlIntFlag
}

func (h *Hardware) record(e Event) {
	h.Journal = append(h.Journal, e)
}
