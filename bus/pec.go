package bus

import "github.com/sigurn/crc8"

// SMBus Packet Error Checking: a CRC-8 (polynomial 0x07, zero init) over
// every byte seen on the wire, address/direction bytes included.
var pecTable = crc8.MakeTable(crc8.CRC8)

// PEC accumulates an SMBus packet checksum.
type PEC struct {
	crc uint8
}

// NewPEC returns an empty accumulator.
func NewPEC() PEC {
	return PEC{crc: crc8.Init(pecTable)}
}

// AddAddress folds an address/direction byte into the checksum, using the
// same wire encoding the bus transmits.
func (p *PEC) AddAddress(address uint8, dir Direction) {
	p.Add(address<<1 | uint8(dir))
}

// Add folds data bytes into the checksum.
func (p *PEC) Add(data ...byte) {
	p.crc = crc8.Update(p.crc, data, pecTable)
}

// Sum returns the checksum byte for everything added so far.
func (p *PEC) Sum() uint8 {
	return crc8.Complete(p.crc, pecTable)
}
