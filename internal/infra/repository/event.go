package repository

import (
	"context"
	"time"

	"featured-slots/internal/infra"
	"featured-slots/internal/infra/db"
	"featured-slots/internal/usecase/queries"
)

// EventRepository reads the external event catalog. Lookup failures for
// individual keys are not errors; unknown items simply stay undecorated.
type EventRepository struct{}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) FindByKeys(ctx context.Context, dbtx db.DBTX, keys []string) (map[string]queries.EventInfo, error) {
	if len(keys) == 0 {
		return map[string]queries.EventInfo{}, nil
	}

	rows, err := dbtx.Query(ctx, `
		SELECT resource_key, name, event_date
		FROM events
		WHERE resource_key = ANY($1)
	`, keys)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to look up events", err)
	}
	defer rows.Close()

	result := make(map[string]queries.EventInfo, len(keys))
	for rows.Next() {
		var (
			key  string
			name string
			date *time.Time
		)
		if err := rows.Scan(&key, &name, &date); err != nil {
			return nil, infra.WrapRepoErr("failed to scan event row", err)
		}
		result[key] = queries.EventInfo{Name: name, Date: date}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read event rows", err)
	}
	return result, nil
}
