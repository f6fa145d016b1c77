// Package tsl2561 drives the TSL2561 ambient light sensor over any
// transaction-style I2C bus, including a bus.DeviceBus on top of the
// two-wire master engine.
package tsl2561

import "tinygo.org/x/drivers"

// Address is the sensor's default 7-bit bus address (ADDR pin floating).
const Address = 0x39

// Command-register values: bit 7 selects the command register itself,
// bit 4 requests a word transfer.
const (
	cmdControl = 0x80 // control register
	cmdTiming  = 0x81 // integration time / gain
	cmdID      = 0x8A // part number / revision
	cmdData0   = 0xAC // channel 0 (broadband), word
	cmdData1   = 0xAE // channel 1 (infrared), word
)

const (
	controlPowerOn  = 0x03
	controlPowerOff = 0x00
)

// Device wraps the sensor.
type Device struct {
	bus     drivers.I2C
	Address uint16
}

// New returns a Device at the default address. The bus must already be
// configured.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure powers up the sensor's internal ADC.
func (d *Device) Configure() error {
	return d.bus.Tx(d.Address, []byte{cmdControl, controlPowerOn}, nil)
}

// PowerDown stops conversions to save power.
func (d *Device) PowerDown() error {
	return d.bus.Tx(d.Address, []byte{cmdControl, controlPowerOff}, nil)
}

// DeviceID returns the part number / revision register.
func (d *Device) DeviceID() (uint8, error) {
	var buf [1]byte
	if err := d.bus.Tx(d.Address, []byte{cmdID}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Connected reports whether a device answers at the configured address.
func (d *Device) Connected() bool {
	_, err := d.DeviceID()
	return err == nil
}

// Broadband returns the channel 0 reading (visible + infrared).
func (d *Device) Broadband() (uint16, error) {
	return d.readWord(cmdData0)
}

// Infrared returns the channel 1 reading.
func (d *Device) Infrared() (uint16, error) {
	return d.readWord(cmdData1)
}

func (d *Device) readWord(cmd byte) (uint16, error) {
	var buf [2]byte
	if err := d.bus.Tx(d.Address, []byte{cmd}, buf[:]); err != nil {
		return 0, err
	}
	// Low byte first.
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}
