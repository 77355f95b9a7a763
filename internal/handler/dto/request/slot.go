package request

import (
	"time"

	"featured-slots/internal/usecase/commands"
)

type ScheduleSlotRequest struct {
	ResourceKey      string     `json:"resource_key" binding:"required"`
	RequestedStartAt *time.Time `json:"requested_start_at,omitempty"`
	DurationHours    int        `json:"duration_hours" binding:"required"`
}

// ToParams keeps "feature now" semantics: an absent requested start is
// passed through as nil and resolved against the service clock.
func (r ScheduleSlotRequest) ToParams() commands.ScheduleParams {
	return commands.ScheduleParams{
		ResourceKey:      r.ResourceKey,
		RequestedStartAt: r.RequestedStartAt,
		DurationHours:    r.DurationHours,
	}
}

type RescheduleSlotRequest struct {
	RequestedStartAt time.Time `json:"requested_start_at" binding:"required"`
	DurationHours    int       `json:"duration_hours" binding:"required"`
}

func (r RescheduleSlotRequest) ToParams() commands.RescheduleParams {
	return commands.RescheduleParams{
		RequestedStartAt: r.RequestedStartAt,
		DurationHours:    r.DurationHours,
	}
}
