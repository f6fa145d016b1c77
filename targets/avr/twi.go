//go:build avr

package main

import (
	"device/avr"

	"twibus/bus"
)

// HardwareTWI maps bus.RegisterIO onto the AVR TWI peripheral registers.
// The zero value is ready to use.
type HardwareTWI struct{}

var _ bus.RegisterIO = HardwareTWI{}

func (HardwareTWI) WriteControl(bits uint8) { avr.TWCR.Set(bits) }
func (HardwareTWI) ReadControl() uint8      { return avr.TWCR.Get() }
func (HardwareTWI) WriteData(b uint8)       { avr.TWDR.Set(b) }
func (HardwareTWI) ReadData() uint8         { return avr.TWDR.Get() }
func (HardwareTWI) ReadStatus() uint8       { return avr.TWSR.Get() }
func (HardwareTWI) WriteBitrate(d uint8)    { avr.TWBR.Set(d) }

// The prescaler exponent lives in the low two bits of TWSR; the status
// bits above them are read only, so a plain store is safe.
func (HardwareTWI) WritePrescaler(p uint8) { avr.TWSR.Set(p & 0x03) }
