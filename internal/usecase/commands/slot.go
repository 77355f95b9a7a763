package commands

import (
	"context"
	"errors"
	"time"

	"featured-slots/internal/domain/slot"
	"featured-slots/internal/infra"
	"featured-slots/internal/infra/db"
	"featured-slots/internal/pkg/clock"
	"featured-slots/internal/pkg/config"
	"featured-slots/internal/pkg/errs"
	"featured-slots/internal/usecase/queries"
	"featured-slots/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSlotNotFound            = errs.New("slot request not found")
	ErrNotSchedulable          = errs.New("slot request is not schedulable")
	ErrValidation              = errs.New("validation error")
	ErrConcurrentModification  = errs.New("concurrent modification")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ScheduleParams struct {
	ResourceKey      string
	RequestedStartAt *time.Time // nil means "feature now"
	DurationHours    int
}

type RescheduleParams struct {
	RequestedStartAt time.Time
	DurationHours    int
}

type SlotRequestRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, req *slot.Request) error
	FindByID(ctx context.Context, dbtx db.DBTX, tier slot.Tier, id uuid.UUID) (*slot.Request, error)
	ListScheduled(ctx context.Context, dbtx db.DBTX, tier slot.Tier) ([]*slot.Request, error)
	UpdateSchedule(ctx context.Context, dbtx db.DBTX, req *slot.Request) error
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status slot.Status) error
	MarkCompleted(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) error
	CancelAllScheduled(ctx context.Context, dbtx db.DBTX, tier slot.Tier) (int64, error)
	DeleteHistory(ctx context.Context, dbtx db.DBTX, tier slot.Tier) (int64, error)
}

// SlotCommands is the queue mutation service: every mutation and the full
// planner recompute run inside one pool-serialized transaction, so the
// capacity invariant holds at every commit point.
type SlotCommands interface {
	Schedule(ctx context.Context, tier slot.Tier, params ScheduleParams) (*queries.SlotView, error)
	Reschedule(ctx context.Context, tier slot.Tier, id uuid.UUID, params RescheduleParams) (*queries.SlotView, error)
	Cancel(ctx context.Context, tier slot.Tier, id uuid.UUID) error
	ClearScheduled(ctx context.Context, tier slot.Tier) (int64, error)
	ClearHistory(ctx context.Context, tier slot.Tier) (int64, error)
}

type slotCommandsImpl struct {
	repo   SlotRequestRepository
	events queries.EventReader
	pool   *pgxpool.Pool
	clock  clock.Clock
	pools  config.PoolsConfig
}

func NewSlotCommands(
	repo SlotRequestRepository,
	events queries.EventReader,
	pool *pgxpool.Pool,
	clk clock.Clock,
	pools config.PoolsConfig,
) SlotCommands {
	return &slotCommandsImpl{
		repo:   repo,
		events: events,
		pool:   pool,
		clock:  clk,
		pools:  pools,
	}
}

func (c *slotCommandsImpl) Schedule(ctx context.Context, tier slot.Tier, params ScheduleParams) (*queries.SlotView, error) {
	cfg, err := c.pools.Build(tier)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	key, err := slot.NewResourceKey(params.ResourceKey)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	duration, err := slot.NewDurationHours(params.DurationHours)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	requestedStart := c.clock.Now()
	if params.RequestedStartAt != nil {
		requestedStart = *params.RequestedStartAt
	}

	req, err := slot.NewRequest(tier, key, requestedStart, duration)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	view, err := shared.RunInPoolTxWithRetry(ctx, c.pool, tier, func(tx db.DBTX) (*queries.SlotView, error) {
		scheduled, err := c.sweptLiveSet(ctx, tx, cfg)
		if err != nil {
			return nil, err
		}

		if err := c.repo.Create(ctx, tx, req); err != nil {
			return nil, c.storeErr(err)
		}

		scheduled = append(scheduled, req)
		view := c.presentOne(scheduled, req.ID(), cfg)
		if err := c.decorate(ctx, tx, view); err != nil {
			return nil, err
		}
		return view, nil
	})
	if err != nil {
		return nil, c.classify(err)
	}
	return view, nil
}

func (c *slotCommandsImpl) Reschedule(ctx context.Context, tier slot.Tier, id uuid.UUID, params RescheduleParams) (*queries.SlotView, error) {
	cfg, err := c.pools.Build(tier)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	duration, err := slot.NewDurationHours(params.DurationHours)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	view, err := shared.RunInPoolTxWithRetry(ctx, c.pool, tier, func(tx db.DBTX) (*queries.SlotView, error) {
		scheduled, err := c.sweptLiveSet(ctx, tx, cfg)
		if err != nil {
			return nil, err
		}

		req := findByID(scheduled, id)
		if req == nil {
			// Row may exist in a terminal state; distinguish for the caller.
			if _, findErr := c.repo.FindByID(ctx, tx, tier, id); findErr != nil {
				if infra.IsKind(findErr, infra.KindNotFound) {
					return nil, ErrSlotNotFound
				}
				return nil, c.storeErr(findErr)
			}
			return nil, ErrNotSchedulable
		}

		if err := req.Reschedule(params.RequestedStartAt, duration); err != nil {
			return nil, errs.Mark(err, ErrValidation)
		}
		if err := c.repo.UpdateSchedule(ctx, tx, req); err != nil {
			return nil, c.storeErr(err)
		}

		view := c.presentOne(scheduled, req.ID(), cfg)
		if err := c.decorate(ctx, tx, view); err != nil {
			return nil, err
		}
		return view, nil
	})
	if err != nil {
		return nil, c.classify(err)
	}
	return view, nil
}

func (c *slotCommandsImpl) Cancel(ctx context.Context, tier slot.Tier, id uuid.UUID) error {
	cfg, err := c.pools.Build(tier)
	if err != nil {
		return errs.Mark(err, ErrValidation)
	}

	_, err = shared.RunInPoolTxWithRetry(ctx, c.pool, tier, func(tx db.DBTX) (struct{}, error) {
		var none struct{}

		scheduled, err := c.sweptLiveSet(ctx, tx, cfg)
		if err != nil {
			return none, err
		}

		req := findByID(scheduled, id)
		if req == nil {
			if _, findErr := c.repo.FindByID(ctx, tx, tier, id); findErr != nil {
				if infra.IsKind(findErr, infra.KindNotFound) {
					return none, ErrSlotNotFound
				}
				return none, c.storeErr(findErr)
			}
			return none, ErrNotSchedulable
		}

		if err := req.Cancel(); err != nil {
			return none, errs.Mark(err, ErrNotSchedulable)
		}
		if err := c.repo.UpdateStatus(ctx, tx, req.ID(), slot.StatusCancelled); err != nil {
			return none, c.storeErr(err)
		}
		return none, nil
	})
	return c.classify(err)
}

func (c *slotCommandsImpl) ClearScheduled(ctx context.Context, tier slot.Tier) (int64, error) {
	cfg, err := c.pools.Build(tier)
	if err != nil {
		return 0, errs.Mark(err, ErrValidation)
	}

	count, err := shared.RunInPoolTxWithRetry(ctx, c.pool, tier, func(tx db.DBTX) (int64, error) {
		// Ended rows complete first, so only genuinely pending or active
		// requests end up cancelled.
		if _, err := c.sweptLiveSet(ctx, tx, cfg); err != nil {
			return 0, err
		}

		n, err := c.repo.CancelAllScheduled(ctx, tx, tier)
		if err != nil {
			return 0, c.storeErr(err)
		}
		return n, nil
	})
	if err != nil {
		return 0, c.classify(err)
	}
	return count, nil
}

func (c *slotCommandsImpl) ClearHistory(ctx context.Context, tier slot.Tier) (int64, error) {
	cfg, err := c.pools.Build(tier)
	if err != nil {
		return 0, errs.Mark(err, ErrValidation)
	}

	count, err := shared.RunInPoolTxWithRetry(ctx, c.pool, tier, func(tx db.DBTX) (int64, error) {
		if _, err := c.sweptLiveSet(ctx, tx, cfg); err != nil {
			return 0, err
		}

		n, err := c.repo.DeleteHistory(ctx, tx, tier)
		if err != nil {
			return 0, c.storeErr(err)
		}
		return n, nil
	})
	if err != nil {
		return 0, c.classify(err)
	}
	return count, nil
}

// sweptLiveSet loads the scheduled set, completes rows whose window ended
// beyond the recent-ended horizon, and returns the remaining live set.
// Runs at the head of every mutation so the sweep stays lazy but history
// converges on each write.
func (c *slotCommandsImpl) sweptLiveSet(ctx context.Context, tx db.DBTX, cfg slot.PoolConfig) ([]*slot.Request, error) {
	scheduled, err := c.repo.ListScheduled(ctx, tx, cfg.Tier)
	if err != nil {
		return nil, c.storeErr(err)
	}

	plan := slot.PlanAdmissions(scheduled, cfg.MaxConcurrent)
	due := slot.SweepDue(scheduled, plan, c.clock.Now(), cfg)
	if len(due) == 0 {
		return scheduled, nil
	}

	if err := c.repo.MarkCompleted(ctx, tx, due); err != nil {
		return nil, c.storeErr(err)
	}

	dueSet := make(map[uuid.UUID]struct{}, len(due))
	for _, id := range due {
		dueSet[id] = struct{}{}
	}
	live := scheduled[:0]
	for _, r := range scheduled {
		if _, swept := dueSet[r.ID()]; !swept {
			live = append(live, r)
		}
	}
	return live, nil
}

// presentOne replans the mutated live set and renders the target request
// with its fresh window and queue position.
func (c *slotCommandsImpl) presentOne(scheduled []*slot.Request, id uuid.UUID, cfg slot.PoolConfig) *queries.SlotView {
	now := c.clock.Now()
	plan := slot.PlanAdmissions(scheduled, cfg.MaxConcurrent)
	for _, p := range slot.PresentQueue(scheduled, plan, now, cfg) {
		if p.Request.ID() == id {
			return queries.NewSlotView(p)
		}
	}
	// Outside the queue window; render without ranking.
	return queries.NewSlotView(slot.Present(findByID(scheduled, id), plan, now, cfg))
}

// decorate attaches the catalog entry, if any, to a freshly planned view
// so mutation responses match what the queue listing shows.
func (c *slotCommandsImpl) decorate(ctx context.Context, tx db.DBTX, view *queries.SlotView) error {
	found, err := c.events.FindByKeys(ctx, tx, []string{view.ResourceKey})
	if err != nil {
		return c.storeErr(err)
	}
	if ev, ok := found[view.ResourceKey]; ok {
		name := ev.Name
		view.EventName = &name
		view.EventDate = ev.Date
	}
	return nil
}

func (c *slotCommandsImpl) storeErr(err error) error {
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

// classify maps exhausted transaction retries onto the concurrent
// modification condition callers are told to retry.
func (c *slotCommandsImpl) classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrMaxRetriesExceeded) {
		return errs.Mark(err, ErrConcurrentModification)
	}
	return err
}

func findByID(requests []*slot.Request, id uuid.UUID) *slot.Request {
	for _, r := range requests {
		if r.ID() == id {
			return r
		}
	}
	return nil
}
