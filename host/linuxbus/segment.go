// Package linuxbus runs compiled bus programs on a Linux I2C adapter
// through periph.io. The kernel only exposes whole transactions, not raw
// start/stop conditions, so a program is first split into the transfer
// list it describes and each transfer is then issued as one ioctl.
package linuxbus

import (
	"errors"

	"twibus/buslang"
)

var (
	// ErrWriteValueCount means the write value slice does not match the
	// program's w-token arity.
	ErrWriteValueCount = errors.New("linuxbus: write value count does not match program")

	// ErrOutsideFrame means the program moves data without a preceding
	// start condition.
	ErrOutsideFrame = errors.New("linuxbus: data step outside a start condition")

	// ErrDirection means a frame mixes reads and writes in a way the
	// address byte's direction bit does not allow.
	ErrDirection = errors.New("linuxbus: data step direction does not match frame address")

	// ErrDelayUnsupported means the program contains a delay between data
	// bytes of one frame, which a kernel transaction cannot express.
	ErrDelayUnsupported = errors.New("linuxbus: delay inside a frame is not supported")
)

// Transfer is one kernel-level transaction: write W to Addr, then read R
// bytes with a repeated start. Either part may be empty.
type Transfer struct {
	Addr uint16
	W    []byte
	R    int
}

// SplitTransfers converts a program into the transfer list it describes.
// Each start..stop frame becomes one transfer; the first byte written in
// a frame is the address byte and sets the frame's direction. A read
// frame that follows a write frame to the same address over a repeated
// start is folded into that transfer's read part, which is how the
// kernel expresses the register-read idiom.
//
// Delays between frames are dropped (the ioctl round trip dwarfs a
// microsecond); delays inside a frame are an error.
func SplitTransfers(p *buslang.Program, writeValues []byte) ([]Transfer, error) {
	if len(writeValues) != p.WriteArgs {
		return nil, ErrWriteValueCount
	}

	var transfers []Transfer
	var frameW []byte
	var addr uint16
	var dir uint8
	frameR := 0
	inFrame := false
	addressed := false
	repeated := false
	args := 0

	closeFrame := func() {
		if addressed {
			if repeated && dir == 1 && len(transfers) > 0 &&
				transfers[len(transfers)-1].Addr == addr &&
				transfers[len(transfers)-1].R == 0 {
				transfers[len(transfers)-1].R = frameR
			} else {
				transfers = append(transfers, Transfer{Addr: addr, W: frameW, R: frameR})
			}
		}
		frameW = nil
		frameR = 0
		inFrame = false
		addressed = false
	}

	write := func(b byte) error {
		if !inFrame {
			return ErrOutsideFrame
		}
		if !addressed {
			addr = uint16(b >> 1)
			dir = b & 1
			addressed = true
			return nil
		}
		if dir != 0 {
			return ErrDirection
		}
		frameW = append(frameW, b)
		return nil
	}

	for _, s := range p.Steps {
		switch s.Op {
		case buslang.OpStart:
			wasInFrame := inFrame
			closeFrame()
			repeated = wasInFrame
			inFrame = true
		case buslang.OpStop:
			closeFrame()
		case buslang.OpWrite:
			if err := write(s.Value); err != nil {
				return nil, err
			}
		case buslang.OpWriteArg:
			if err := write(writeValues[args]); err != nil {
				return nil, err
			}
			args++
		case buslang.OpRead:
			if !inFrame || !addressed {
				return nil, ErrOutsideFrame
			}
			if dir != 1 {
				return nil, ErrDirection
			}
			frameR++
		case buslang.OpDelay:
			if inFrame {
				return nil, ErrDelayUnsupported
			}
		}
	}
	// A trailing unterminated frame behaves as if stopped.
	closeFrame()
	return transfers, nil
}
