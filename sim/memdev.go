package sim

// MemoryDevice is a register-file slave: the first byte written after it is
// addressed selects a register pointer, further writes store bytes at the
// pointer with auto-increment, and reads return bytes from the pointer with
// auto-increment. That is the access pattern of small EEPROMs and most
// register-mapped sensors, which makes it a convenient stand-in for either.
type MemoryDevice struct {
	Mem [256]uint8

	pointer     uint8
	expectPtr   bool
	nackAddress int
}

// NewMemoryDevice returns a device with zeroed memory.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{}
}

// NackNextAddresses makes the device refuse its next n address phases,
// modeling a part that is busy after power-up or a write cycle.
func (d *MemoryDevice) NackNextAddresses(n int) {
	d.nackAddress = n
}

// Pointer returns the current register pointer.
func (d *MemoryDevice) Pointer() uint8 {
	return d.pointer
}

func (d *MemoryDevice) Address(dir uint8) bool {
	if d.nackAddress > 0 {
		d.nackAddress--
		return false
	}
	d.expectPtr = dir == 0
	return true
}

func (d *MemoryDevice) WriteByte(b uint8) bool {
	if d.expectPtr {
		d.pointer = b
		d.expectPtr = false
		return true
	}
	d.Mem[d.pointer] = b
	d.pointer++
	return true
}

func (d *MemoryDevice) ReadByte(ack bool) uint8 {
	b := d.Mem[d.pointer]
	d.pointer++
	return b
}

func (d *MemoryDevice) Stop() {}
