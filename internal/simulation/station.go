package simulation

import (
	"fmt"

	"loran-sim/internal/common"
)

// Role is the part a transmitter plays in the chain.
type Role int

const (
	Master Role = iota
	SlaveA
	SlaveB
)

func (r Role) String() string {
	switch r {
	case Master:
		return "master"
	case SlaveA:
		return "slave-a"
	case SlaveB:
		return "slave-b"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Station is a fixed transmitter. It has no identity beyond its role.
type Station struct {
	role     Role
	position common.Vector
}

// NewStation creates a station at a given position.
func NewStation(role Role, pos common.Vector) (*Station, error) {
	s := &Station{role: role}
	if err := s.SetPosition(pos); err != nil {
		return nil, err
	}
	return s, nil
}

// Role returns the station's role.
func (s *Station) Role() Role {
	return s.role
}

// GetID returns the role name.
func (s *Station) GetID() string {
	return s.role.String()
}

// GetPosition returns the current position of the station.
func (s *Station) GetPosition() common.Vector {
	return s.position
}

// SetPosition sets the position of the station.
func (s *Station) SetPosition(pos common.Vector) error {
	if !pos.IsFinite() {
		return fmt.Errorf("station %s: position %s is not finite", s.role, pos)
	}
	s.position = pos
	return nil
}

// MeasureDistance returns the true distance to another object. Propagation
// is noise-free.
func (s *Station) MeasureDistance(obj SimulationObject) float64 {
	return s.position.Distance(obj.GetPosition())
}

// String representation for logging
func (s *Station) String() string {
	return fmt.Sprintf("Station[%s] Pos: %s", s.role, s.position)
}
