// Package bus implements a master-mode driver for the clocked two-wire
// serial bus: start/repeated-start conditions, addressed transfers,
// byte-level acknowledged reads and writes, and stop conditions.
//
// The driver is fully synchronous. Every primitive busy-polls the
// peripheral's operation-complete flag with no timeout; a slave that
// stretches the clock forever hangs the caller. That matches the hardware's
// semantics - hosts that need bounded waits must wrap the driver at the
// integration boundary.
package bus

// Direction selects the data direction of an addressed transfer. The values
// match the wire encoding of the direction bit.
type Direction uint8

const (
	Write Direction = 0
	Read  Direction = 1
)

// ReadMode declares whether the caller will read further bytes after this
// one. RequestMore acknowledges the byte so the slave keeps sending;
// LastByte withholds the acknowledge so the slave stops.
type ReadMode uint8

const (
	LastByte    ReadMode = 0
	RequestMore ReadMode = 1
)

// Phase tracks the state of the single bus session.
type Phase uint8

const (
	Idle Phase = iota
	Started
	Addressed
	Transferring
)

// Master drives one two-wire bus in master mode. It owns the session state;
// there must be exactly one Master per RegisterIO.
type Master struct {
	hw    RegisterIO
	phase Phase
	dir   Direction
}

// New returns a Master over the given peripheral. Call Setup before use.
func New(hw RegisterIO) *Master {
	return &Master{hw: hw}
}

// Setup programs the bit-rate generator for the requested bus frequency.
// Needs to be called once; returns ErrUnreachableBitrate if no prescaler
// and divisor pair can produce the frequency.
func (m *Master) Setup(baseClockHz, bitrateHz uint32) error {
	prescaler, divisor, err := ComputeClockParameters(baseClockHz, bitrateHz)
	if err != nil {
		return err
	}
	m.hw.WritePrescaler(prescaler)
	m.hw.WriteBitrate(divisor)
	return nil
}

// Phase returns the current session phase.
func (m *Master) Phase() Phase {
	return m.phase
}

// StartCondition transmits a start condition, or a repeated start if a
// session is already open. Returns true iff bus ownership was obtained;
// false means arbitration was lost and the caller decides whether to retry.
func (m *Master) StartCondition() bool {
	m.hw.WriteControl(CtrlIntFlag | CtrlStart | CtrlEnable)
	m.waitForOperation()

	st := m.status()
	if st != StatusStart && st != StatusRepStart {
		return false
	}
	m.phase = Started
	return true
}

// AddressedStart transmits a start condition followed by the 7-bit address
// and direction bit. Returns false if the start failed or the slave did not
// acknowledge the address. On an address NACK the bus is still owned; the
// caller is responsible for issuing a stop.
func (m *Master) AddressedStart(address uint8, dir Direction) bool {
	if !m.StartCondition() {
		return false
	}

	st := m.rawWrite(address<<1 | uint8(dir))
	if st != StatusMTSlaveAck && st != StatusMRSlaveAck {
		return false
	}
	m.phase = Addressed
	m.dir = dir
	return true
}

// RetryingAddressedStart repeats AddressedStart until the slave acknowledges.
// A negative acknowledge releases the bus with a stop condition before the
// next attempt; an arbitration loss retries immediately, since the bus was
// never owned. This is the wait-for-device-ready pattern used after
// power-up. It blocks without bound.
func (m *Master) RetryingAddressedStart(address uint8, dir Direction) {
	for {
		if !m.StartCondition() {
			continue
		}

		st := m.rawWrite(address<<1 | uint8(dir))
		if st == StatusMTSlaveAck || st == StatusMRSlaveAck {
			m.phase = Addressed
			m.dir = dir
			return
		}

		m.StopCondition()
	}
}

// WriteByte transmits one byte within the active session. Returns true iff
// the slave acknowledged it.
func (m *Master) WriteByte(b uint8) bool {
	st := m.rawWrite(b)
	m.phase = Transferring
	return st == StatusMTDataAck
}

// ReadByte clocks in one byte. RequestMore asserts the acknowledge bit so
// the slave continues sending; LastByte withholds it so the slave stops
// after this byte. The mode is the caller's declaration of intent, not a
// result - ReadByte always returns a byte.
func (m *Master) ReadByte(mode ReadMode) uint8 {
	ctrl := CtrlIntFlag | CtrlEnable
	if mode == RequestMore {
		ctrl |= CtrlEnableAck
	}
	m.hw.WriteControl(ctrl)
	m.waitForOperation()

	m.phase = Transferring
	return m.hw.ReadData()
}

// StopCondition transmits a stop condition and blocks until the hardware
// reports the bus released. Safe to call from any phase; idempotent.
func (m *Master) StopCondition() {
	m.hw.WriteControl(CtrlIntFlag | CtrlStop | CtrlEnable)

	// The stop bit self-clears once the condition is on the wire; there is
	// no interrupt flag for it.
	for m.hw.ReadControl()&CtrlStop != 0 {
	}
	m.phase = Idle
}

// rawWrite shifts out one byte and returns the resulting status code.
func (m *Master) rawWrite(b uint8) uint8 {
	m.hw.WriteData(b)
	m.hw.WriteControl(CtrlIntFlag | CtrlEnable)
	m.waitForOperation()
	return m.status()
}

func (m *Master) waitForOperation() {
	for m.hw.ReadControl()&CtrlIntFlag == 0 {
	}
}

func (m *Master) status() uint8 {
	return m.hw.ReadStatus() & StatusMask
}
