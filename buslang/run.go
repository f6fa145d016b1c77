package buslang

import (
	"errors"
	"time"

	"twibus/bus"
)

var (
	// ErrReadSlotCount means the read slot slice does not match the
	// program's read arity.
	ErrReadSlotCount = errors.New("buslang: read slot count does not match program")

	// ErrWriteValueCount means the write value slice does not match the
	// program's w-token arity.
	ErrWriteValueCount = errors.New("buslang: write value count does not match program")
)

// Executor runs compiled programs against one bus master.
type Executor struct {
	Master *bus.Master

	// Delay is invoked for each '&' step. The default sleeps for roughly
	// one microsecond; tests substitute a counter.
	Delay func()
}

// Run executes the program. Read results land in readSlots left to right;
// w tokens consume writeValues left to right. Both slices must match the
// program's arity exactly. Returns the number of reads performed.
//
// Acknowledge results of the underlying bus primitives are ignored: a
// NACKing or absent device yields 0xFF reads, not an error. Callers that
// need ack checking use the bus primitives directly.
func (e *Executor) Run(p *Program, readSlots, writeValues []byte) (int, error) {
	if len(readSlots) != p.ReadCount {
		return 0, ErrReadSlotCount
	}
	if len(writeValues) != p.WriteArgs {
		return 0, ErrWriteValueCount
	}

	reads, writes := 0, 0
	for _, s := range p.Steps {
		switch s.Op {
		case OpStart:
			e.Master.StartCondition()
		case OpStop:
			e.Master.StopCondition()
		case OpWrite:
			e.Master.WriteByte(s.Value)
		case OpWriteArg:
			e.Master.WriteByte(writeValues[writes])
			writes++
		case OpRead:
			readSlots[reads] = e.Master.ReadByte(s.Mode)
			reads++
		case OpDelay:
			e.delay()
		}
	}
	return reads, nil
}

func (e *Executor) delay() {
	if e.Delay != nil {
		e.Delay()
		return
	}
	time.Sleep(time.Microsecond)
}

// Run compiles and executes command in one call.
func Run(m *bus.Master, command string, readSlots, writeValues []byte) (int, error) {
	e := Executor{Master: m}
	return e.Run(Compile(command), readSlots, writeValues)
}
