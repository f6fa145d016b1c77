// Package buslang implements the compact ASCII mini-language for scripting
// two-wire bus transactions (the Bus Pirate I2C grammar, plus the s/w
// extensions). A command string is compiled once into a typed instruction
// sequence, then executed against a bus.Master with caller-supplied,
// length-checked read slots and write values.
package buslang

import "twibus/bus"

// Op is one kind of compiled instruction.
type Op uint8

const (
	OpStart    Op = iota // issue a start / repeated-start condition
	OpStop               // issue a stop condition
	OpWrite              // write a literal byte from the command text
	OpWriteArg           // write the next caller-supplied value
	OpRead               // read a byte into the next caller-supplied slot
	OpDelay              // busy-delay of about one microsecond
)

// Step is one compiled instruction. Value is set for OpWrite, Mode for
// OpRead; other fields are zero.
type Step struct {
	Op    Op
	Value byte
	Mode  bus.ReadMode
}

// Program is a compiled command: the step sequence plus the operand arity
// the caller must supply at run time. Programs are immutable and can be run
// any number of times.
type Program struct {
	Steps []Step

	// ReadCount is the number of read slots a run consumes.
	ReadCount int

	// WriteArgs is the number of caller-supplied write values a run
	// consumes (w tokens; literals in the command text need none).
	WriteArgs int
}
