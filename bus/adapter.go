package bus

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	// ErrAddressNack means the slave did not acknowledge its address, or
	// bus ownership could not be obtained.
	ErrAddressNack = errors.New("bus: address not acknowledged")

	// ErrDataNack means the slave refused a data byte mid-transfer.
	ErrDataNack = errors.New("bus: data byte not acknowledged")
)

// DeviceBus adapts a Master to the transaction-style I2C interface used by
// the tinygo.org/x/drivers device drivers, so any of those drivers can run
// on top of this bus engine. A write followed by a read is framed with a
// repeated start, no intervening stop.
type DeviceBus struct {
	m *Master
}

var _ drivers.I2C = (*DeviceBus)(nil)

// NewDeviceBus wraps a Master. The Master must already be set up.
func NewDeviceBus(m *Master) *DeviceBus {
	return &DeviceBus{m: m}
}

// Tx performs one addressed transaction: writes w (if any), then reads
// len(r) bytes (if any) after a repeated start, then stops. With both w and
// r empty it degenerates to an address probe.
func (d *DeviceBus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 && len(r) == 0 {
		ok := d.m.AddressedStart(uint8(addr), Write)
		d.m.StopCondition()
		if !ok {
			return ErrAddressNack
		}
		return nil
	}

	if len(w) > 0 {
		if !d.m.AddressedStart(uint8(addr), Write) {
			d.m.StopCondition()
			return ErrAddressNack
		}
		for _, b := range w {
			if !d.m.WriteByte(b) {
				d.m.StopCondition()
				return ErrDataNack
			}
		}
	}

	if len(r) > 0 {
		if !d.m.AddressedStart(uint8(addr), Read) {
			d.m.StopCondition()
			return ErrAddressNack
		}
		for i := range r {
			mode := RequestMore
			if i == len(r)-1 {
				mode = LastByte
			}
			r[i] = d.m.ReadByte(mode)
		}
	}

	d.m.StopCondition()
	return nil
}

// TxWithPEC performs a write transaction with an SMBus Packet Error
// Checking byte appended: the checksum covers the address/direction byte
// and every data byte.
func (d *DeviceBus) TxWithPEC(addr uint16, w []byte) error {
	pec := NewPEC()
	pec.AddAddress(uint8(addr), Write)
	pec.Add(w...)

	framed := make([]byte, 0, len(w)+1)
	framed = append(framed, w...)
	framed = append(framed, pec.Sum())
	return d.Tx(addr, framed, nil)
}
