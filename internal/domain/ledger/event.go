package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Event is the message published for a committed ledger operation. A
// transfer event carries both legs; deposits and withdrawals carry one.
type Event struct {
	OperationID uuid.UUID `json:"operation_id"`
	Kind        Kind      `json:"kind"`
	Entries     []*Entry  `json:"entries"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewEvent builds the event describing a committed operation
func NewEvent(entries ...*Entry) *Event {
	if len(entries) == 0 {
		return nil
	}
	return &Event{
		OperationID: entries[0].OperationID,
		Kind:        entries[0].Kind,
		Entries:     entries,
		OccurredAt:  time.Now().UTC(),
	}
}
