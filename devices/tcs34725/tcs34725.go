// Package tcs34725 drives the TCS34725 RGB color sensor over any
// transaction-style I2C bus.
package tcs34725

import "tinygo.org/x/drivers"

// Address is the sensor's fixed 7-bit bus address.
const Address = 0x29

// Command-register values: bit 7 selects the command register, bit 5
// enables register auto-increment for burst reads.
const (
	cmdEnable    = 0x80 // enable register
	cmdTiming    = 0x81 // RGBC integration time
	cmdControl   = 0x8F // gain
	cmdID        = 0x92 // part number
	cmdColorData = 0xB4 // clear-low with auto-increment, 8-byte burst
)

const (
	enablePowerOn = 0x01 // PON: oscillator up
	enableRGBC    = 0x02 // AEN: RGBC ADC enable
)

// Known part numbers. The TCS34721 shares 0x44 with the TCS34725.
const (
	IDTCS34725 = 0x44
	IDTCS34727 = 0x4D
)

// Reading is one RGBC conversion result.
type Reading struct {
	Clear, Red, Green, Blue uint16
}

// Device wraps the sensor.
type Device struct {
	bus     drivers.I2C
	Address uint16
}

// New returns a Device at the sensor's fixed address. The bus must already
// be configured.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure powers the sensor up and enables the RGBC ADC.
func (d *Device) Configure() error {
	return d.bus.Tx(d.Address, []byte{cmdEnable, enablePowerOn | enableRGBC}, nil)
}

// Disable powers the sensor down.
func (d *Device) Disable() error {
	return d.bus.Tx(d.Address, []byte{cmdEnable, 0x00}, nil)
}

// DeviceID returns the part-number register.
func (d *Device) DeviceID() (uint8, error) {
	var buf [1]byte
	if err := d.bus.Tx(d.Address, []byte{cmdID}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Connected reports whether a sensor with a known part number answers.
func (d *Device) Connected() bool {
	id, err := d.DeviceID()
	if err != nil {
		return false
	}
	return id == IDTCS34725 || id == IDTCS34727
}

// ReadColor burst-reads all four channels in one transaction, so the
// values come from the same conversion cycle.
func (d *Device) ReadColor() (Reading, error) {
	var buf [8]byte
	if err := d.bus.Tx(d.Address, []byte{cmdColorData}, buf[:]); err != nil {
		return Reading{}, err
	}
	return Reading{
		Clear: uint16(buf[0]) | uint16(buf[1])<<8,
		Red:   uint16(buf[2]) | uint16(buf[3])<<8,
		Green: uint16(buf[4]) | uint16(buf[5])<<8,
		Blue:  uint16(buf[6]) | uint16(buf[7])<<8,
	}, nil
}
