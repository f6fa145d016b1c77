package linuxbus

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"twibus/buslang"
)

// Bus wraps a kernel I2C adapter so that compiled bus programs can run
// against real hardware on the host instead of the AVR peripheral.
type Bus struct {
	Log *logrus.Entry
	bus i2c.BusCloser
}

// Open initializes the host drivers and opens the named adapter ("1",
// "/dev/i2c-1", or "" for the first one registered).
func Open(name string, log *logrus.Entry) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("linuxbus: host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("linuxbus: open %q: %w", name, err)
	}
	log.WithField("bus", b.String()).Info("Opened I2C adapter")
	return &Bus{Log: log, bus: b}, nil
}

// SetSpeed changes the adapter's bus clock, e.g. 100*physic.KiloHertz.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return b.bus.SetSpeed(f)
}

// Close releases the adapter.
func (b *Bus) Close() error {
	return b.bus.Close()
}

// RunProgram splits the program into transfers and issues them in order.
// Read results land in readSlots left to right, exactly as the AVR
// executor fills them. Returns the number of bytes read.
func (b *Bus) RunProgram(p *buslang.Program, readSlots, writeValues []byte) (int, error) {
	if len(readSlots) != p.ReadCount {
		return 0, fmt.Errorf("linuxbus: need %d read slots, got %d", p.ReadCount, len(readSlots))
	}
	transfers, err := SplitTransfers(p, writeValues)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, t := range transfers {
		var r []byte
		if t.R > 0 {
			r = readSlots[n : n+t.R]
		}
		dev := i2c.Dev{Bus: b.bus, Addr: t.Addr}
		b.Log.WithFields(logrus.Fields{
			"addr":  fmt.Sprintf("%#02x", t.Addr),
			"write": len(t.W),
			"read":  t.R,
		}).Debug("Transfer")
		if err := dev.Tx(t.W, r); err != nil {
			return n, fmt.Errorf("linuxbus: transfer to %#02x: %w", t.Addr, err)
		}
		n += t.R
	}
	return n, nil
}
