package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/model"
)

// EventRepository handles security log persistence. The log is
// append-only: no update or delete is exposed.
type EventRepository struct {
	db *database.Postgres
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *database.Postgres) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new security log entry
func (r *EventRepository) Create(ctx context.Context, event *model.SecurityEvent) error {
	// Absent metadata is stored as SQL NULL, not a JSON null
	var metadataJSON []byte
	if event.Metadata != nil {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			b = []byte("{}")
		}
		metadataJSON = b
	}

	query := `
		INSERT INTO security_events (id, user_id, action, success, ip_address, user_agent, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.Action,
		event.Success,
		event.IPAddress,
		event.UserAgent,
		metadataJSON,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create security event: %w", err)
	}
	return nil
}

// ListByUser returns security log entries for a user, most recent first
func (r *EventRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.SecurityEvent, error) {
	query := `
		SELECT id, user_id, action, success, ip_address, user_agent, metadata, created_at
		FROM security_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list security events: %w", err)
	}
	defer rows.Close()

	events := make([]model.SecurityEvent, 0, limit)
	for rows.Next() {
		var e model.SecurityEvent
		var metadataJSON []byte
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Action,
			&e.Success,
			&e.IPAddress,
			&e.UserAgent,
			&metadataJSON,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan security event: %w", err)
		}
		if len(metadataJSON) > 0 {
			json.Unmarshal(metadataJSON, &e.Metadata)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate security events: %w", err)
	}

	return events, nil
}
