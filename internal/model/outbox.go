package model

import "time"

// Event types written to the outbox for each history entry.
const (
	EventPointCharged = "PointCharged"
	EventPointUsed    = "PointUsed"
)

type OutboxEvent struct {
	ID          uint64    `gorm:"primaryKey"`
	Aggregate   string    `gorm:"size:64;not null"`
	AggregateID int64     `gorm:"not null"`
	EventType   string    `gorm:"size:64;not null"`
	Payload     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	Processed   bool      `gorm:"not null;default:false;index"`
	ProcessedAt *time.Time
}

func (OutboxEvent) TableName() string { return "event_outbox" }

// EventTypeFor maps a history type to its outbox event type.
func EventTypeFor(t TransactionType) string {
	if t == TransactionUse {
		return EventPointUsed
	}
	return EventPointCharged
}
