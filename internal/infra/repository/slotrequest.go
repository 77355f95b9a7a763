package repository

import (
	"context"
	"errors"
	"time"

	"featured-slots/internal/domain/slot"
	"featured-slots/internal/infra"
	"featured-slots/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

// SlotRequestRepository persists slot_requests rows. Effective windows are
// never stored; only the requested schedule and lifecycle status are.
type SlotRequestRepository struct{}

func NewSlotRequestRepository() *SlotRequestRepository {
	return &SlotRequestRepository{}
}

func (r *SlotRequestRepository) Create(ctx context.Context, dbtx db.DBTX, req *slot.Request) error {
	row := dbtx.QueryRow(ctx, `
		INSERT INTO slot_requests (id, tier, resource_key, requested_start_at, duration_hours, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at
	`, req.ID(), req.Tier().String(), req.ResourceKey().String(), req.RequestedStartAt(), req.Duration().Hours(), req.Status().String())

	var createdAt, updatedAt time.Time
	if err := row.Scan(&createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("slot request already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create slot request", err)
	}
	// The row timestamps feed the planner tie-break, so the entity must
	// carry the persisted values, not zero.
	req.RefreshTimestamps(createdAt, updatedAt)
	return nil
}

func (r *SlotRequestRepository) FindByID(ctx context.Context, dbtx db.DBTX, tier slot.Tier, id uuid.UUID) (*slot.Request, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, tier, resource_key, requested_start_at, duration_hours, status, created_at, updated_at
		FROM slot_requests
		WHERE tier = $1 AND id = $2
	`, tier.String(), id)

	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot request", err)
	}
	return req, nil
}

// ListScheduled returns the live set in planner input order.
func (r *SlotRequestRepository) ListScheduled(ctx context.Context, dbtx db.DBTX, tier slot.Tier) ([]*slot.Request, error) {
	return r.list(ctx, dbtx, `
		SELECT id, tier, resource_key, requested_start_at, duration_hours, status, created_at, updated_at
		FROM slot_requests
		WHERE tier = $1 AND status = 'scheduled'
		ORDER BY requested_start_at, created_at, id
	`, tier)
}

func (r *SlotRequestRepository) ListHistory(ctx context.Context, dbtx db.DBTX, tier slot.Tier) ([]*slot.Request, error) {
	return r.list(ctx, dbtx, `
		SELECT id, tier, resource_key, requested_start_at, duration_hours, status, created_at, updated_at
		FROM slot_requests
		WHERE tier = $1 AND status IN ('completed', 'cancelled')
		ORDER BY updated_at DESC, id
	`, tier)
}

func (r *SlotRequestRepository) list(ctx context.Context, dbtx db.DBTX, query string, tier slot.Tier) ([]*slot.Request, error) {
	rows, err := dbtx.Query(ctx, query, tier.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slot requests", err)
	}
	defer rows.Close()

	var result []*slot.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot request", err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read slot request rows", err)
	}
	return result, nil
}

func (r *SlotRequestRepository) UpdateSchedule(ctx context.Context, dbtx db.DBTX, req *slot.Request) error {
	row := dbtx.QueryRow(ctx, `
		UPDATE slot_requests
		SET requested_start_at = $2, duration_hours = $3, updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
		RETURNING updated_at
	`, req.ID(), req.RequestedStartAt(), req.Duration().Hours())

	var updatedAt time.Time
	if err := row.Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.WrapRepoErr("slot request not found or not scheduled", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to update slot request schedule", err)
	}
	req.RefreshTimestamps(req.CreatedAt(), updatedAt)
	return nil
}

func (r *SlotRequestRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status slot.Status) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE slot_requests
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update slot request status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot request not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SlotRequestRepository) MarkCompleted(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := dbtx.Exec(ctx, `
		UPDATE slot_requests
		SET status = 'completed', updated_at = now()
		WHERE id = ANY($1) AND status = 'scheduled'
	`, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to mark slot requests completed", err)
	}
	return nil
}

func (r *SlotRequestRepository) CancelAllScheduled(ctx context.Context, dbtx db.DBTX, tier slot.Tier) (int64, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE slot_requests
		SET status = 'cancelled', updated_at = now()
		WHERE tier = $1 AND status = 'scheduled'
	`, tier.String())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel scheduled slot requests", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SlotRequestRepository) DeleteHistory(ctx context.Context, dbtx db.DBTX, tier slot.Tier) (int64, error) {
	tag, err := dbtx.Exec(ctx, `
		DELETE FROM slot_requests
		WHERE tier = $1 AND status IN ('completed', 'cancelled')
	`, tier.String())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete slot request history", err)
	}
	return tag.RowsAffected(), nil
}

func scanRequest(row pgx.Row) (*slot.Request, error) {
	var (
		id               uuid.UUID
		tierStr          string
		resourceKey      string
		requestedStartAt time.Time
		durationHours    int
		statusStr        string
		createdAt        time.Time
		updatedAt        time.Time
	)
	if err := row.Scan(&id, &tierStr, &resourceKey, &requestedStartAt, &durationHours, &statusStr, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	tier, err := slot.ParseTier(tierStr)
	if err != nil {
		return nil, err
	}
	key, err := slot.NewResourceKey(resourceKey)
	if err != nil {
		return nil, err
	}
	duration, err := slot.NewDurationHours(durationHours)
	if err != nil {
		return nil, err
	}

	return slot.ReconstructRequest(
		id, tier, key,
		requestedStartAt.UTC(),
		duration,
		slot.Status(statusStr),
		createdAt.UTC(), updatedAt.UTC(),
	), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}
