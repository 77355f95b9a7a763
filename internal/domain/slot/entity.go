package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequestedStart = errors.New("requested start time is not a valid instant")
	ErrNotSchedulable        = errors.New("request is no longer scheduled")
)

// Request is one promotional booking inside a pool. Only the requested
// start, duration and lifecycle status are persisted; the admitted window
// is recomputed by the planner on every read and mutation.
type Request struct {
	id               uuid.UUID
	tier             Tier
	resourceKey      ResourceKey
	requestedStartAt time.Time
	duration         DurationHours
	status           Status
	createdAt        time.Time
	updatedAt        time.Time
}

func NewRequest(tier Tier, key ResourceKey, requestedStartAt time.Time, duration DurationHours) (*Request, error) {
	if requestedStartAt.IsZero() {
		return nil, ErrInvalidRequestedStart
	}
	return &Request{
		id:               uuid.New(),
		tier:             tier,
		resourceKey:      key,
		requestedStartAt: requestedStartAt.UTC(),
		duration:         duration,
		status:           StatusScheduled,
	}, nil
}

func ReconstructRequest(
	id uuid.UUID,
	tier Tier,
	key ResourceKey,
	requestedStartAt time.Time,
	duration DurationHours,
	status Status,
	createdAt, updatedAt time.Time,
) *Request {
	return &Request{
		id:               id,
		tier:             tier,
		resourceKey:      key,
		requestedStartAt: requestedStartAt,
		duration:         duration,
		status:           status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Reschedule moves the requested start and duration in place. Terminal
// rows reject the mutation so history is immutable.
func (r *Request) Reschedule(requestedStartAt time.Time, duration DurationHours) error {
	if r.status != StatusScheduled {
		return ErrNotSchedulable
	}
	if requestedStartAt.IsZero() {
		return ErrInvalidRequestedStart
	}
	r.requestedStartAt = requestedStartAt.UTC()
	r.duration = duration
	return nil
}

func (r *Request) Cancel() error {
	if r.status != StatusScheduled {
		return ErrNotSchedulable
	}
	r.status = StatusCancelled
	return nil
}

// Complete is the sweep transition for a scheduled row whose admitted
// window ended long enough ago. Idempotent on already-completed rows.
func (r *Request) Complete() error {
	if r.status == StatusCompleted {
		return nil
	}
	if r.status != StatusScheduled {
		return ErrNotSchedulable
	}
	r.status = StatusCompleted
	return nil
}

// RefreshTimestamps applies the store-assigned write timestamps so the
// in-memory entity matches the persisted row. The planner tie-breaks on
// createdAt, so a freshly inserted request must carry the real value
// before it is planned.
func (r *Request) RefreshTimestamps(createdAt, updatedAt time.Time) {
	r.createdAt = createdAt
	r.updatedAt = updatedAt
}

func (r *Request) IsScheduled() bool {
	return r.status == StatusScheduled
}

func (r *Request) ID() uuid.UUID               { return r.id }
func (r *Request) Tier() Tier                  { return r.tier }
func (r *Request) ResourceKey() ResourceKey    { return r.resourceKey }
func (r *Request) RequestedStartAt() time.Time { return r.requestedStartAt }
func (r *Request) Duration() DurationHours     { return r.duration }
func (r *Request) Status() Status              { return r.status }
func (r *Request) CreatedAt() time.Time        { return r.createdAt }
func (r *Request) UpdatedAt() time.Time        { return r.updatedAt }
