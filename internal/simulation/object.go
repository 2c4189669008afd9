package simulation

import "loran-sim/internal/common"

// SimulationObject defines the interface for any positioned object in the simulation.
type SimulationObject interface {
	// GetPosition returns the current position of the object.
	GetPosition() common.Vector
	// SetPosition moves the object. Non-finite positions are rejected.
	SetPosition(pos common.Vector) error
	// GetID returns the identifier of the object.
	GetID() string
}
