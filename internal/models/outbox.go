package models

import "time"

// OutboxMessage is a row of the outbox_messages table.
type OutboxMessage struct {
	MessageID    string     `db:"message_id"`
	Topic        string     `db:"topic"`
	MessageKey   string     `db:"message_key"`
	Payload      []byte     `db:"payload"`
	CreatedAt    time.Time  `db:"created_at"`
	DispatchedAt *time.Time `db:"dispatched_at"`
	Attempts     int        `db:"attempts"`
	LastError    *string    `db:"last_error"`
}
