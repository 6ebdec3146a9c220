package domain

import "time"

// Event types
const (
	EventTypeAccountCreated       = "account.created"
	EventTypeAccountStatusChanged = "account.status_changed"
	EventTypeAccountDeleted       = "account.deleted"
	EventTypeMovementCreated      = "movement.created"
	EventTypeMovementDeleted      = "movement.deleted"
)

// Aggregate types
const (
	AggregateTypeAccount  = "account"
	AggregateTypeMovement = "movement"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
