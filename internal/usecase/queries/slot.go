package queries

import (
	"context"
	"time"

	"featured-slots/internal/domain/slot"
	"featured-slots/internal/infra"
	"featured-slots/internal/infra/db"
	"featured-slots/internal/pkg/clock"
	"featured-slots/internal/pkg/config"
	"featured-slots/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrQueueUnavailable = errs.New("queue listing unavailable")

// Read models (DTO for read side)
type SlotView struct {
	ID                  uuid.UUID  `json:"id"`
	Tier                string     `json:"tier"`
	ResourceKey         string     `json:"resource_key"`
	EventName           *string    `json:"event_name,omitempty"`
	EventDate           *time.Time `json:"event_date,omitempty"`
	RequestedStartAt    time.Time  `json:"requested_start_at"`
	DurationHours       int        `json:"duration_hours"`
	Status              string     `json:"status"`
	State               string     `json:"state"`
	EffectiveStartAt    *time.Time `json:"effective_start_at,omitempty"`
	EffectiveEndAt      *time.Time `json:"effective_end_at,omitempty"`
	EffectiveStartLocal *string    `json:"effective_start_local,omitempty"`
	EffectiveEndLocal   *string    `json:"effective_end_local,omitempty"`
	QueuePosition       *int       `json:"queue_position,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type PoolConfigView struct {
	Tier              string `json:"tier"`
	MaxConcurrent     int    `json:"max_concurrent"`
	Timezone          string `json:"timezone"`
	RecentEndedWindow string `json:"recent_ended_window"`
}

type QueueView struct {
	ActiveCount int            `json:"active_count"`
	Config      PoolConfigView `json:"config"`
	Queue       []*SlotView    `json:"queue"`
}

// EventInfo is what the external catalog exposes about a promoted item.
// Display-only; admission never consults it.
type EventInfo struct {
	Name string
	Date *time.Time
}

type SlotRequestReader interface {
	ListScheduled(ctx context.Context, dbtx db.DBTX, tier slot.Tier) ([]*slot.Request, error)
	ListHistory(ctx context.Context, dbtx db.DBTX, tier slot.Tier) ([]*slot.Request, error)
}

type EventReader interface {
	FindByKeys(ctx context.Context, dbtx db.DBTX, keys []string) (map[string]EventInfo, error)
}

type SlotQueries interface {
	Queue(ctx context.Context, tier slot.Tier) (*QueueView, error)
	History(ctx context.Context, tier slot.Tier) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	requests SlotRequestReader
	events   EventReader
	pool     *pgxpool.Pool
	clock    clock.Clock
	pools    config.PoolsConfig
}

func NewSlotQueries(
	requests SlotRequestReader,
	events EventReader,
	pool *pgxpool.Pool,
	clk clock.Clock,
	pools config.PoolsConfig,
) SlotQueries {
	return &slotQueriesImpl{
		requests: requests,
		events:   events,
		pool:     pool,
		clock:    clk,
		pools:    pools,
	}
}

// Queue re-derives the whole presentation for one pool: plan the live set,
// classify each request against now, rank the waiting ones.
func (q *slotQueriesImpl) Queue(ctx context.Context, tier slot.Tier) (*QueueView, error) {
	cfg, err := q.pools.Build(tier)
	if err != nil {
		return nil, err
	}

	scheduled, err := q.requests.ListScheduled(ctx, q.pool, tier)
	if err != nil {
		return nil, errs.Mark(err, ErrQueueUnavailable)
	}

	now := q.clock.Now()
	plan := slot.PlanAdmissions(scheduled, cfg.MaxConcurrent)
	presented := slot.PresentQueue(scheduled, plan, now, cfg)

	views := make([]*SlotView, len(presented))
	keys := make([]string, 0, len(presented))
	for i, p := range presented {
		views[i] = NewSlotView(p)
		keys = append(keys, p.Request.ResourceKey().String())
	}
	if err := q.decorate(ctx, views, keys); err != nil {
		return nil, errs.Mark(err, ErrQueueUnavailable)
	}

	return &QueueView{
		ActiveCount: plan.ActiveCount(now),
		Config: PoolConfigView{
			Tier:              tier.String(),
			MaxConcurrent:     cfg.MaxConcurrent,
			Timezone:          cfg.Location.String(),
			RecentEndedWindow: cfg.RecentEndedWindow.String(),
		},
		Queue: views,
	}, nil
}

// History lists terminal rows, newest update first. Windows are not
// recomputable for terminal rows, so only lifecycle-derived state shows.
func (q *slotQueriesImpl) History(ctx context.Context, tier slot.Tier) ([]*SlotView, error) {
	cfg, err := q.pools.Build(tier)
	if err != nil {
		return nil, err
	}

	history, err := q.requests.ListHistory(ctx, q.pool, tier)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return []*SlotView{}, nil
		}
		return nil, errs.Mark(err, ErrQueueUnavailable)
	}

	now := q.clock.Now()
	views := make([]*SlotView, len(history))
	keys := make([]string, 0, len(history))
	for i, r := range history {
		views[i] = NewSlotView(slot.Present(r, slot.Plan{}, now, cfg))
		keys = append(keys, r.ResourceKey().String())
	}
	if err := q.decorate(ctx, views, keys); err != nil {
		return nil, errs.Mark(err, ErrQueueUnavailable)
	}

	return views, nil
}

func (q *slotQueriesImpl) decorate(ctx context.Context, views []*SlotView, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	events, err := q.events.FindByKeys(ctx, q.pool, keys)
	if err != nil {
		return err
	}
	for _, v := range views {
		if ev, ok := events[v.ResourceKey]; ok {
			name := ev.Name
			v.EventName = &name
			v.EventDate = ev.Date
		}
	}
	return nil
}

// NewSlotView flattens a presented request into the read model.
func NewSlotView(p slot.Presented) *SlotView {
	r := p.Request
	v := &SlotView{
		ID:               r.ID(),
		Tier:             r.Tier().String(),
		ResourceKey:      r.ResourceKey().String(),
		RequestedStartAt: r.RequestedStartAt(),
		DurationHours:    r.Duration().Hours(),
		Status:           r.Status().String(),
		State:            p.State.String(),
		QueuePosition:    p.QueuePosition,
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
	if !p.Window.IsZero() {
		start, end := p.Window.Start, p.Window.End
		v.EffectiveStartAt = &start
		v.EffectiveEndAt = &end
		startLocal, endLocal := p.EffectiveStartLocal, p.EffectiveEndLocal
		v.EffectiveStartLocal = &startLocal
		v.EffectiveEndLocal = &endLocal
	}
	return v
}
