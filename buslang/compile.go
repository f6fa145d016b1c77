package buslang

import "twibus/bus"

// Compile translates a command string into a Program in a single pass.
//
// The grammar:
//
//	{ or [      start condition
//	} or ]      stop condition
//	x           switch radix to hexadecimal
//	b           switch radix to binary
//	r or R      read a byte, acknowledge (more data expected)
//	s or S      read a byte, withhold acknowledge (last byte)
//	w or W      write the next caller-supplied value
//	space or ,  delimiter: flush a pending literal write, reset radix to 10
//	&           ~1us busy-delay
//	digits      accumulate a literal under the current radix
//	other       ignored
//
// Compile never fails: unrecognized characters are skipped by design.
//
// Inherited quirks are kept deliberately, since changing them would
// silently alter existing command strings: a radix switch only affects
// digits after it (the "0" and "1" of "0x1F" are read as decimal before the
// "x" takes effect, which happens to leave the accumulator at 1); "b"
// always switches radix, so it never acts as a hex digit; a trailing
// literal with no delimiter after it is dropped; "w" discards any partial
// literal before it.
func Compile(command string) *Program {
	p := &Program{}

	radix := byte(10)
	acc := byte(0)
	pending := false

	reset := func() {
		radix, acc, pending = 10, 0, false
	}

	for i := 0; i < len(command); i++ {
		c := command[i]
		switch c {
		case '{', '[':
			p.Steps = append(p.Steps, Step{Op: OpStart})

		case '}', ']':
			p.Steps = append(p.Steps, Step{Op: OpStop})

		case 'x':
			radix = 16

		case 'b':
			radix = 2

		case 'r', 'R':
			p.Steps = append(p.Steps, Step{Op: OpRead, Mode: bus.RequestMore})
			p.ReadCount++

		case 's', 'S':
			p.Steps = append(p.Steps, Step{Op: OpRead, Mode: bus.LastByte})
			p.ReadCount++

		case 'w', 'W':
			p.Steps = append(p.Steps, Step{Op: OpWriteArg})
			p.WriteArgs++
			reset()

		case ' ', ',':
			if pending {
				p.Steps = append(p.Steps, Step{Op: OpWrite, Value: acc})
			}
			reset()

		case '&':
			p.Steps = append(p.Steps, Step{Op: OpDelay})

		default:
			v, ok := digitValue(c, radix)
			if !ok {
				break
			}
			acc = acc*radix + v
			pending = true
		}
	}

	return p
}

// digitValue returns the numeric value of c under the given radix, or
// ok=false if c is not a valid digit there.
func digitValue(c, radix byte) (v byte, ok bool) {
	switch {
	case c >= 'a' && c <= 'f' && radix == 16:
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F' && radix == 16:
		return c - 'A' + 10, true
	case c >= '0' && c <= '9' && radix >= 10:
		return c - '0', true
	case c >= '0' && c <= '1' && radix == 2:
		return c - '0', true
	}
	return 0, false
}
