//go:build unit || e2e

package builder

import (
	"time"

	domslot "featured-slots/internal/domain/slot"
	reqdto "featured-slots/internal/handler/dto/request"
	"featured-slots/internal/usecase/commands"
	"featured-slots/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID               uuid.UUID
	Tier             domslot.Tier
	ResourceKey      string
	RequestedStartAt time.Time
	DurationHours    int
	Status           domslot.Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &SlotBuilder{
		ID:               uuid.New(),
		Tier:             domslot.TierSpotlight,
		ResourceKey:      "event-summer-fest",
		RequestedStartAt: now.Add(2 * time.Hour),
		DurationHours:    3,
		Status:           domslot.StatusScheduled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *SlotBuilder) BuildDomain() (*domslot.Request, error) {
	key, err := domslot.NewResourceKey(b.ResourceKey)
	if err != nil {
		return nil, err
	}
	duration, err := domslot.NewDurationHours(b.DurationHours)
	if err != nil {
		return nil, err
	}
	return domslot.NewRequest(b.Tier, key, b.RequestedStartAt, duration)
}

// BuildReconstructed bypasses validation, mirroring a row loaded from the
// store. Panics on invalid builder state; tests construct valid rows.
func (b *SlotBuilder) BuildReconstructed() *domslot.Request {
	key, err := domslot.NewResourceKey(b.ResourceKey)
	if err != nil {
		panic(err)
	}
	duration, err := domslot.NewDurationHours(b.DurationHours)
	if err != nil {
		panic(err)
	}
	return domslot.ReconstructRequest(
		b.ID, b.Tier, key,
		b.RequestedStartAt.UTC(),
		duration,
		b.Status,
		b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
	)
}

func (b *SlotBuilder) BuildScheduleRequestDTO() reqdto.ScheduleSlotRequest {
	start := b.RequestedStartAt
	return reqdto.ScheduleSlotRequest{
		ResourceKey:      b.ResourceKey,
		RequestedStartAt: &start,
		DurationHours:    b.DurationHours,
	}
}

func (b *SlotBuilder) BuildRescheduleRequestDTO() reqdto.RescheduleSlotRequest {
	return reqdto.RescheduleSlotRequest{
		RequestedStartAt: b.RequestedStartAt,
		DurationHours:    b.DurationHours,
	}
}

func (b *SlotBuilder) BuildScheduleParams() commands.ScheduleParams {
	start := b.RequestedStartAt
	return commands.ScheduleParams{
		ResourceKey:      b.ResourceKey,
		RequestedStartAt: &start,
		DurationHours:    b.DurationHours,
	}
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	return &queries.SlotView{
		ID:               b.ID,
		Tier:             b.Tier.String(),
		ResourceKey:      b.ResourceKey,
		RequestedStartAt: b.RequestedStartAt,
		DurationHours:    b.DurationHours,
		Status:           b.Status.String(),
		State:            domslot.StateUpcoming.String(),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
