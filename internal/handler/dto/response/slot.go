package response

import (
	"time"

	"featured-slots/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Tier                string     `json:"tier"`
	ResourceKey         string     `json:"resourceKey"`
	EventName           *string    `json:"eventName,omitempty"`
	EventDate           *time.Time `json:"eventDate,omitempty"`
	RequestedStartAt    time.Time  `json:"requestedStartAt"`
	DurationHours       int        `json:"durationHours"`
	Status              string     `json:"status"`
	State               string     `json:"state"`
	EffectiveStartAt    *time.Time `json:"effectiveStartAt,omitempty"`
	EffectiveEndAt      *time.Time `json:"effectiveEndAt,omitempty"`
	EffectiveStartLocal *string    `json:"effectiveStartLocal,omitempty"`
	EffectiveEndLocal   *string    `json:"effectiveEndLocal,omitempty"`
	QueuePosition       *int       `json:"queuePosition,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type PoolConfigResponse struct {
	Tier              string `json:"tier"`
	MaxConcurrent     int    `json:"maxConcurrent"`
	Timezone          string `json:"timezone"`
	RecentEndedWindow string `json:"recentEndedWindow"`
}

type QueueResponse struct {
	ActiveCount int                `json:"activeCount"`
	Config      PoolConfigResponse `json:"config"`
	Queue       []*SlotResponse    `json:"queue"`
}

type ClearResponse struct {
	Count int64 `json:"count"`
}

func FromSlotView(view *queries.SlotView) *SlotResponse {
	var resp SlotResponse
	// Field-for-field copy; views and responses differ only in JSON casing.
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromQueueView(view *queries.QueueView) *QueueResponse {
	resp := &QueueResponse{
		ActiveCount: view.ActiveCount,
		Queue:       make([]*SlotResponse, len(view.Queue)),
	}
	_ = copier.Copy(&resp.Config, &view.Config)
	for i, v := range view.Queue {
		resp.Queue[i] = FromSlotView(v)
	}
	return resp
}
