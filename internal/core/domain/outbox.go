package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryPostedTopic names the notification emitted after a successful post.
const EntryPostedTopic = "ledger.entry.posted"

// EntryPosted is the payload delivered to bookkeeping/export subscribers.
type EntryPosted struct {
	EntryID     string          `json:"entry_id"`
	EntryNumber string          `json:"entry_number"`
	TenantID    string          `json:"tenant_id"`
	PostedAt    time.Time       `json:"posted_at"`
	PostedBy    string          `json:"posted_by"`
	Total       decimal.Decimal `json:"total"`
}

// OutboxMessage is a notification committed with the posting transaction and
// relayed to the broker afterwards.
type OutboxMessage struct {
	MessageID    string     `json:"messageID"`
	Topic        string     `json:"topic"`
	Key          string     `json:"key"`
	Payload      []byte     `json:"payload"`
	CreatedAt    time.Time  `json:"createdAt"`
	DispatchedAt *time.Time `json:"dispatchedAt,omitempty"`
	Attempts     int        `json:"attempts"`
	LastError    *string    `json:"lastError,omitempty"`
}
