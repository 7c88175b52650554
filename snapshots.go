package tambola

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Snapshot is a snapshot of the current draw state. It should be treated as
// a 100% immutable value.
type Snapshot struct {
	SessionID uuid.UUID  `json:"sessionId"`
	Status    DrawStatus `json:"status"`
	// Called lists every committed number in the order it was called
	Called    []Number `json:"called"`
	Remaining int      `json:"remaining"`
}

var _ json.Marshaler = &Snapshot{}

// MarshalJSON takes a draw snapshot, and serializes it as JSON. All nil
// slices will automatically be allocated to ensure they don't get serialized
// as JSON null.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	// Aliasing the type drops the method set, which keeps json.Marshal from
	// recursing back into this function
	type snapshotAlias Snapshot
	snapCopy := snapshotAlias(*s)
	if snapCopy.Called == nil {
		snapCopy.Called = []Number{}
	}

	return json.Marshal(snapCopy)
}

// Progress returns how much of the draw has been completed, from 0 to 1
func (s Snapshot) Progress() float64 {
	return float64(len(s.Called)) / float64(MaxNumber)
}
