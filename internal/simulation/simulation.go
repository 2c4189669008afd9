package simulation

import (
	"fmt"
	"strings"

	"loran-sim/internal/common"

	"github.com/google/uuid"
)

// Control selects what pointer input moves.
type Control int

const (
	ControlSlaveA Control = iota + 1
	ControlSlaveB
	ControlTimeDifference
)

func (c Control) String() string {
	switch c {
	case ControlSlaveA:
		return "slave A"
	case ControlSlaveB:
		return "slave B"
	case ControlTimeDifference:
		return "time difference"
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// Simulation holds the mutable state edited between frames: station
// positions, the time difference and the control mode. The core only
// ever sees Snapshot values.
type Simulation struct {
	id        string
	master    *Station
	slaveA    *Station
	slaveB    *Station
	tdMicros  common.Vector // As entered, in microseconds.
	control   Control
	evaluator *Evaluator

	last   Frame
	frames int
}

// NewSimulation creates a simulation with the given stations and initial
// time difference in microseconds. Pointer input starts on slave A.
func NewSimulation(master, slaveA, slaveB, tdMicroseconds common.Vector, evaluator *Evaluator) (*Simulation, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("simulation needs an evaluator")
	}
	s := &Simulation{
		id:        fmt.Sprintf("session-%s", uuid.NewString()[:8]),
		control:   ControlSlaveA,
		evaluator: evaluator,
	}

	var err error
	if s.master, err = NewStation(Master, master); err != nil {
		return nil, err
	}
	if s.slaveA, err = NewStation(SlaveA, slaveA); err != nil {
		return nil, err
	}
	if s.slaveB, err = NewStation(SlaveB, slaveB); err != nil {
		return nil, err
	}
	if err := s.SetTimeDifferenceMicroseconds(tdMicroseconds); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Simulation) ID() string {
	return s.id
}

// Control returns the current control mode.
func (s *Simulation) Control() Control {
	return s.control
}

// SetControl changes what ApplyPointer moves.
func (s *Simulation) SetControl(c Control) error {
	switch c {
	case ControlSlaveA, ControlSlaveB, ControlTimeDifference:
		s.control = c
		return nil
	}
	return fmt.Errorf("unknown control mode %d", int(c))
}

// ApplyPointer applies a pointer position in world coordinates according to
// the control mode. In time-difference mode the coordinates are read as
// microseconds.
func (s *Simulation) ApplyPointer(world common.Vector) error {
	switch s.control {
	case ControlSlaveA:
		return s.slaveA.SetPosition(world)
	case ControlSlaveB:
		return s.slaveB.SetPosition(world)
	case ControlTimeDifference:
		return s.SetTimeDifferenceMicroseconds(world)
	}
	return fmt.Errorf("unknown control mode %d", int(s.control))
}

// SetTimeDifferenceMicroseconds sets both time differences.
func (s *Simulation) SetTimeDifferenceMicroseconds(us common.Vector) error {
	if !us.IsFinite() {
		return fmt.Errorf("time difference %s is not finite", us)
	}
	s.tdMicros = us
	return nil
}

// ObserveReceiver sets the time difference to what r would measure.
func (s *Simulation) ObserveReceiver(r *Receiver) error {
	td := r.TimeDifferences(s.master, s.slaveA, s.slaveB)
	return s.SetTimeDifferenceMicroseconds(common.NewVector(
		common.SecondsToMicroseconds(td.X),
		common.SecondsToMicroseconds(td.Y),
	))
}

// Stations returns master, slave A and slave B in that order.
func (s *Simulation) Stations() []*Station {
	return []*Station{s.master, s.slaveA, s.slaveB}
}

// Snapshot captures the current state as an immutable frame input.
func (s *Simulation) Snapshot() FrameInput {
	return FrameInput{
		Master:         s.master.GetPosition(),
		SlaveA:         s.slaveA.GetPosition(),
		SlaveB:         s.slaveB.GetPosition(),
		TimeDifference: common.TimeDifferenceFromMicroseconds(s.tdMicros),
	}
}

// Step evaluates the current snapshot and remembers the result.
func (s *Simulation) Step() Frame {
	f := s.evaluator.Evaluate(s.Snapshot())
	s.last = f
	s.frames++
	return f
}

// LastFrame returns the most recent Step result.
func (s *Simulation) LastFrame() (Frame, bool) {
	return s.last, s.frames > 0
}

// Frames returns how many frames have been evaluated.
func (s *Simulation) Frames() int {
	return s.frames
}

// String summarises the current state for logging.
func (s *Simulation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Simulation[%s] control=%s td=%sus", s.id, s.control, s.tdMicros)
	for _, st := range s.Stations() {
		fmt.Fprintf(&b, "\n  %s", st)
	}
	if f, ok := s.LastFrame(); ok {
		fmt.Fprintf(&b, "\n  Receiver est: %s (Resid: %.3f)", f.Receiver.Position, f.Receiver.ResidualError)
		if f.ErrA != nil {
			fmt.Fprintf(&b, "\n  Curve A: %v", f.ErrA)
		}
		if f.ErrB != nil {
			fmt.Fprintf(&b, "\n  Curve B: %v", f.ErrB)
		}
	}
	return b.String()
}
