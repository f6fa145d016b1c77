// Package console implements the interactive bus command shell. Each
// input line holds a quoted command in the bus mini-language followed by
// optional operand bytes for its w tokens, e.g.:
//
//	"[ 0x72 w [ 0x73 s ]" 0x8A
//
// The command must be quoted because the mini-language uses spaces as
// literal delimiters; shlex handles the quoting the same way a shell
// would.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"twibus/bus"
	"twibus/buslang"
)

// ErrEmptyLine means the line held no command after splitting.
var ErrEmptyLine = errors.New("console: empty command line")

// Runner executes a compiled program against some bus backend.
// bus.Master via MasterRunner and linuxbus.Bus both satisfy it.
type Runner interface {
	RunProgram(p *buslang.Program, readSlots, writeValues []byte) (int, error)
}

// MasterRunner adapts a two-wire master to the Runner interface.
type MasterRunner struct {
	Master *bus.Master
}

func (r MasterRunner) RunProgram(p *buslang.Program, readSlots, writeValues []byte) (int, error) {
	e := buslang.Executor{Master: r.Master}
	return e.Run(p, readSlots, writeValues)
}

// Console reads command lines from In, runs them on Runner and prints
// read results to Out.
type Console struct {
	Log    *logrus.Entry
	Runner Runner
	In     io.Reader
	Out    io.Writer
}

// Run processes lines until In is exhausted. Command errors are logged
// and do not stop the loop; only a read error on In ends it.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, "twi> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.Out)
			return scanner.Err()
		}
		if err := c.Execute(scanner.Text()); err != nil && err != ErrEmptyLine {
			c.Log.WithError(err).Error("Command failed")
		}
	}
}

// Execute parses and runs one command line, printing any bytes the
// command read.
func (c *Console) Execute(line string) error {
	fields, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	// A quoted empty token ('') splits to one empty field; treat it like
	// a blank line rather than indexing into it.
	if len(fields) == 0 || fields[0] == "" || fields[0][0] == '#' {
		return ErrEmptyLine
	}

	values := make([]byte, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 0, 8)
		if err != nil {
			return fmt.Errorf("console: bad operand %q: %w", f, err)
		}
		values = append(values, byte(v))
	}

	program := buslang.Compile(fields[0])
	c.Log.WithFields(logrus.Fields{
		"steps":  len(program.Steps),
		"reads":  program.ReadCount,
		"writes": program.WriteArgs,
	}).Debug("Compiled command")

	reads := make([]byte, program.ReadCount)
	if _, err := c.Runner.RunProgram(program, reads, values); err != nil {
		return err
	}

	if len(reads) > 0 {
		for i, b := range reads {
			if i > 0 {
				fmt.Fprint(c.Out, " ")
			}
			fmt.Fprintf(c.Out, "0x%02X", b)
		}
		fmt.Fprintln(c.Out)
	}
	return nil
}
