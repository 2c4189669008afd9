package simulation

import (
	"fmt"

	"loran-sim/internal/common"

	"github.com/google/uuid"
)

// Receiver is a ground-truth receiver position. It is used to generate the
// time differences a receiver at that point would measure.
type Receiver struct {
	id       string
	position common.Vector
}

// NewReceiver creates a receiver at a given position.
func NewReceiver(pos common.Vector) (*Receiver, error) {
	r := &Receiver{id: fmt.Sprintf("receiver-%s", uuid.NewString()[:8])}
	if err := r.SetPosition(pos); err != nil {
		return nil, err
	}
	return r, nil
}

// GetID returns the unique identifier of the receiver.
func (r *Receiver) GetID() string {
	return r.id
}

// GetPosition returns the current position of the receiver.
func (r *Receiver) GetPosition() common.Vector {
	return r.position
}

// SetPosition sets the position of the receiver.
func (r *Receiver) SetPosition(pos common.Vector) error {
	if !pos.IsFinite() {
		return fmt.Errorf("receiver %s: position %s is not finite", r.id, pos)
	}
	r.position = pos
	return nil
}

// TimeDifferences returns the arrival time deltas in seconds that the
// receiver observes: slave A (X) and slave B (Y), each relative to the master.
func (r *Receiver) TimeDifferences(master, slaveA, slaveB *Station) common.Vector {
	dm := master.MeasureDistance(r)
	dd := common.NewVector(dm-slaveA.MeasureDistance(r), dm-slaveB.MeasureDistance(r))
	return common.TimeDifference(dd)
}

// String representation for logging
func (r *Receiver) String() string {
	return fmt.Sprintf("Receiver[%s] Pos: %s", r.id, r.position)
}
