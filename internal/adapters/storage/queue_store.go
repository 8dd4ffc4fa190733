package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// queueStore implements ports.QueueStore using SQLite. The AUTOINCREMENT
// sequence column preserves enqueue order across restarts.
type queueStore struct {
	db *sql.DB
}

// newQueueStore creates a new offline queue store.
func newQueueStore(db *sql.DB) ports.QueueStore {
	return &queueStore{db: db}
}

// Append adds an action to the tail of the queue.
func (r *queueStore) Append(ctx context.Context, action *domain.QueuedAction) error {
	query := `
		INSERT INTO sync_queue (id, action_type, resource, target_id, data, queued_at, retries)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		action.ID,
		string(action.Type),
		string(action.Resource),
		action.TargetID,
		string(action.Data),
		action.Timestamp,
		action.Retries,
	)
	if err != nil {
		return fmt.Errorf("failed to append queued action: %w", err)
	}

	return nil
}

// List returns all queued actions in enqueue order.
func (r *queueStore) List(ctx context.Context) ([]*domain.QueuedAction, error) {
	query := `
		SELECT id, action_type, resource, target_id, data, queued_at, retries
		FROM sync_queue
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync queue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var actions []*domain.QueuedAction
	for rows.Next() {
		var action domain.QueuedAction
		var actionType, resource, data string
		var targetID sql.NullString

		err := rows.Scan(
			&action.ID,
			&actionType,
			&resource,
			&targetID,
			&data,
			&action.Timestamp,
			&action.Retries,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queued action: %w", err)
		}

		action.Type = domain.ActionType(actionType)
		action.Resource = domain.Resource(resource)
		if targetID.Valid {
			action.TargetID = targetID.String
		}
		if data != "" {
			action.Data = []byte(data)
		}

		actions = append(actions, &action)
	}

	return actions, rows.Err()
}

// Remove deletes an action after confirmed success or drop.
func (r *queueStore) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove queued action: %w", err)
	}
	return nil
}

// SetRetries updates an action's retry counter in place.
func (r *queueStore) SetRetries(ctx context.Context, id string, retries int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sync_queue SET retries = ? WHERE id = ?`, retries, id)
	if err != nil {
		return fmt.Errorf("failed to update retry count: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("queued action not found: %s", id)
	}

	return nil
}

// Len returns the number of queued actions.
func (r *queueStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sync queue: %w", err)
	}
	return n, nil
}
