package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing the console against an in-memory pipe)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate (the AVR firmware's UART console runs at 9600)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a default configuration for a board running the
// bus console firmware
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        9600, // classic AVR UART rate
		ReadTimeout: 100,  // 100ms read timeout
	}
}
