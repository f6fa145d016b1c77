//go:build avr

package main

import (
	"machine"
	"time"

	"twibus/bus"
	"twibus/buslang"
)

// Firmware for the UART bus console: each received line is compiled and
// run on the TWI peripheral, and any bytes read come back in hex. The
// host side (twibus-console -device) just forwards lines here.

const busClockHz = 100000

const hexDigits = "0123456789ABCDEF"

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 9600})

	master := bus.New(HardwareTWI{})
	if err := master.Setup(machine.CPUFrequency(), busClockHz); err != nil {
		for {
			println("bus clock unreachable at this CPU frequency")
			time.Sleep(time.Second)
		}
	}
	println("twi console ready")

	line := make([]byte, 0, 80)
	reads := make([]byte, 16)
	exec := buslang.Executor{Master: master}

	for {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			continue
		}
		if b != '\r' && b != '\n' {
			if len(line) < cap(line) {
				line = append(line, b)
			}
			continue
		}
		if len(line) == 0 {
			continue
		}

		p := buslang.Compile(string(line))
		line = line[:0]

		// w operands arrive out of band on the host console; the
		// firmware alone has nowhere to take them from.
		if p.WriteArgs != 0 {
			println("ERR w tokens need the host console")
			continue
		}
		if p.ReadCount > len(reads) {
			println("ERR too many reads")
			continue
		}
		if _, err := exec.Run(p, reads[:p.ReadCount], nil); err != nil {
			println("ERR", err.Error())
			continue
		}

		for i := 0; i < p.ReadCount; i++ {
			if i > 0 {
				machine.Serial.WriteByte(' ')
			}
			machine.Serial.WriteByte('0')
			machine.Serial.WriteByte('x')
			machine.Serial.WriteByte(hexDigits[reads[i]>>4])
			machine.Serial.WriteByte(hexDigits[reads[i]&0x0F])
		}
		machine.Serial.WriteByte('\r')
		machine.Serial.WriteByte('\n')
	}
}
