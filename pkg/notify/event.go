package notify

import (
	"time"

	"github.com/chronicle-hq/headline-ledger/internal/domain"
)

// Event represents the payload delivered to downstream sinks after a record
// has been appended to the ledger.
type Event struct {
	TargetID   string        `json:"target_id"`
	TargetName string        `json:"target_name"`
	Record     domain.Record `json:"record"`
	ObservedAt time.Time     `json:"observed_at"`
}

// NewEvent constructs an Event for the given target + record.
func NewEvent(targetID, targetName string, rec domain.Record) Event {
	return Event{
		TargetID:   targetID,
		TargetName: targetName,
		Record:     rec,
		ObservedAt: time.Now().UTC(),
	}
}
