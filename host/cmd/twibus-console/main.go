// Command twibus-console is the interactive shell for scripting two-wire
// bus transactions. It can drive the built-in bus simulator, a Linux
// kernel I2C adapter, or forward lines to a board running the UART
// console firmware.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"twibus/bus"
	"twibus/host/console"
	"twibus/host/linuxbus"
	"twibus/host/logconfig"
	"twibus/host/serial"
	"twibus/sim"
)

func main() {
	logconfig.InitParam()
	var (
		device  = flag.String("device", "", "serial device of a board running the console firmware")
		baud    = flag.Int("baud", 9600, "serial baud rate")
		i2cName = flag.String("i2c", "", "Linux I2C adapter to drive directly (e.g. \"1\")")
		simMode = flag.Bool("sim", false, "run against the built-in bus simulator")
	)
	flag.Parse()
	log := logconfig.GetLogger(logrus.InfoLevel)

	var err error
	switch {
	case *simMode:
		err = runSim(log)
	case *i2cName != "":
		err = runLinux(log, *i2cName)
	case *device != "":
		err = runSerial(log, *device, *baud)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Fatal("Console exited")
	}
}

func runSim(log *logrus.Entry) error {
	hw := sim.NewHardware()
	hw.Attach(0x29, sim.NewMemoryDevice())
	hw.Attach(0x39, sim.NewMemoryDevice())

	master := bus.New(hw)
	if err := master.Setup(16_000_000, 100_000); err != nil {
		return err
	}
	log.Info("Simulated bus ready, memory devices at 0x29 and 0x39")

	c := console.Console{
		Log:    log,
		Runner: console.MasterRunner{Master: master},
		In:     os.Stdin,
		Out:    os.Stdout,
	}
	return c.Run()
}

func runLinux(log *logrus.Entry, name string) error {
	b, err := linuxbus.Open(name, log)
	if err != nil {
		return err
	}
	defer b.Close()

	c := console.Console{Log: log, Runner: b, In: os.Stdin, Out: os.Stdout}
	return c.Run()
}

// runSerial forwards raw lines to the firmware console on the board and
// echoes its responses; parsing and execution happen on the MCU.
func runSerial(log *logrus.Entry, device string, baud int) error {
	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud
	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	// Drop whatever the board printed before we attached.
	if err := port.Flush(); err != nil {
		return err
	}
	log.WithField("device", device).Info("Connected")

	go func() {
		if _, err := io.Copy(os.Stdout, port); err != nil {
			log.WithError(err).Warn("Serial read ended")
		}
	}()
	_, err = io.Copy(port, os.Stdin)
	return err
}
