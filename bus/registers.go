package bus

// RegisterIO abstracts the two-wire master peripheral's register file.
// There is exactly one physical bus behind a RegisterIO; the Master that
// wraps it owns the single in-flight session. Targets implement this over
// real hardware registers, the sim package implements it in software.
type RegisterIO interface {
	// WriteControl writes the control register. Writing CtrlIntFlag set
	// clears the operation-complete flag and kicks off the next operation.
	WriteControl(bits uint8)

	// ReadControl returns the control register, including the current
	// state of CtrlIntFlag and CtrlStop.
	ReadControl() uint8

	// WriteData loads the data register with the next byte to shift out.
	WriteData(b uint8)

	// ReadData returns the last byte shifted in.
	ReadData() uint8

	// ReadStatus returns the raw status register. The low three bits are
	// reserved for the prescaler; callers mask with StatusMask.
	ReadStatus() uint8

	// WriteBitrate sets the bit-rate generator divisor.
	WriteBitrate(divisor uint8)

	// WritePrescaler sets the bit-rate generator prescaler exponent (0-3).
	WritePrescaler(exp uint8)
}

// Control register bits, matching the classic TWI control register layout.
const (
	CtrlIntFlag   uint8 = 1 << 7 // operation complete; write 1 to clear
	CtrlEnableAck uint8 = 1 << 6 // acknowledge the next received byte
	CtrlStart     uint8 = 1 << 5 // transmit a start condition
	CtrlStop      uint8 = 1 << 4 // transmit a stop condition
	CtrlCollision uint8 = 1 << 3 // write collision flag
	CtrlEnable    uint8 = 1 << 2 // enable the peripheral
	CtrlIntEnable uint8 = 1 << 0 // interrupt enable (unused; we busy-poll)
)

// StatusMask strips the prescaler bits from the status register.
const StatusMask uint8 = 0xF8

// Status codes reported after each bus operation.
const (
	StatusStart    uint8 = 0x08 // start condition transmitted
	StatusRepStart uint8 = 0x10 // repeated start transmitted

	StatusMTSlaveAck  uint8 = 0x18 // write address sent, slave acked
	StatusMTSlaveNack uint8 = 0x20 // write address sent, no ack
	StatusMTDataAck   uint8 = 0x28 // data byte sent, slave acked
	StatusMTDataNack  uint8 = 0x30 // data byte sent, no ack

	StatusArbitrationLost uint8 = 0x38 // bus ownership lost to another master

	StatusMRSlaveAck  uint8 = 0x40 // read address sent, slave acked
	StatusMRSlaveNack uint8 = 0x48 // read address sent, no ack
	StatusMRDataAck   uint8 = 0x50 // data byte received, we acked
	StatusMRDataNack  uint8 = 0x58 // data byte received, we withheld ack
)
