package outbox

import (
	"encoding/json"
	"time"

	"github.com/bankcore-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a committed ledger event for reliable publishing. It is
// written in the same database transaction as the balance and ledger writes,
// so an event exists if and only if the operation committed.
type Message struct {
	ID            int64           `json:"id"`
	OperationID   uuid.UUID       `json:"operation_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a ledger event for the outbox
func NewMessage(event *ledger.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		OperationID: event.OperationID,
		Payload:     payload,
		Status:      StatusPending,
		Attempts:    0,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// GetEvent extracts the ledger event from the payload
func (m *Message) GetEvent() (*ledger.Event, error) {
	var event ledger.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
