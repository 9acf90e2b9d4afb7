package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
)

type PgxOutboxRepository struct {
	BaseRepository
}

func newPgxOutboxRepository(db dbtx) *PgxOutboxRepository {
	return &PgxOutboxRepository{BaseRepository{DB: db}}
}

var _ portsrepo.OutboxRepositoryFacade = (*PgxOutboxRepository)(nil)

func (r *PgxOutboxRepository) SaveMessage(ctx context.Context, msg domain.OutboxMessage) error {
	m := mapping.ToModelOutboxMessage(msg)
	query := `
		INSERT INTO outbox_messages (message_id, topic, message_key, payload, created_at, dispatched_at, attempts, last_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.DB.Exec(ctx, query, m.MessageID, m.Topic, m.MessageKey, m.Payload, m.CreatedAt, m.DispatchedAt, m.Attempts, m.LastError)
	return mapError(err, "save outbox message "+m.MessageID)
}

func (r *PgxOutboxRepository) ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	query := `
		SELECT message_id, topic, message_key, payload, created_at, dispatched_at, attempts, last_error
		FROM outbox_messages
		WHERE dispatched_at IS NULL
		ORDER BY created_at, message_id
		LIMIT $1;
	`
	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, mapError(err, "list pending outbox messages")
	}
	defer rows.Close()

	var out []domain.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		if err := rows.Scan(&m.MessageID, &m.Topic, &m.MessageKey, &m.Payload, &m.CreatedAt, &m.DispatchedAt, &m.Attempts, &m.LastError); err != nil {
			return nil, mapError(err, "scan outbox message row")
		}
		out = append(out, mapping.ToDomainOutboxMessage(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate outbox message rows")
	}
	return out, nil
}

func (r *PgxOutboxRepository) MarkDispatched(ctx context.Context, messageID string, at time.Time) error {
	tag, err := r.DB.Exec(ctx, `UPDATE outbox_messages SET dispatched_at = $2, last_error = NULL WHERE message_id = $1;`, messageID, at)
	if err != nil {
		return mapError(err, "mark outbox message "+messageID+" dispatched")
	}
	return expectAffected(tag, "mark outbox message "+messageID+" dispatched")
}

func (r *PgxOutboxRepository) RecordFailure(ctx context.Context, messageID string, reason string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE outbox_messages SET attempts = attempts + 1, last_error = $2 WHERE message_id = $1;`, messageID, reason)
	if err != nil {
		return mapError(err, "record failure of outbox message "+messageID)
	}
	return expectAffected(tag, "record failure of outbox message "+messageID)
}
