package incarnation

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// ID identifies one worker activation. Two IDs are never equal, even
// for the same EntityId re-activated after a passivation cycle.
type ID string

// New returns a fresh worker incarnation ID.
func New() ID {
	return ID(uuid.NewString())
}

// CorrelationID is a compact, sortable identifier stamped on buffered
// messages so their arrival order can be reconstructed in logs and
// tests independent of when they are eventually delivered.
type CorrelationID string

// NewCorrelation returns a fresh, monotonically-sortable correlation
// ID for one buffered message.
func NewCorrelation() CorrelationID {
	return CorrelationID(xid.New().String())
}
