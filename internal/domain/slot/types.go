package slot

import "errors"

var ErrUnknownTier = errors.New("unknown slot tier")

// Tier selects which independent slot pool a request belongs to.
// Spotlight and promoted pools never share capacity.
type Tier string

const (
	TierSpotlight Tier = "spotlight"
	TierPromoted  Tier = "promoted"
)

func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierSpotlight, TierPromoted:
		return Tier(s), nil
	default:
		return "", ErrUnknownTier
	}
}

func (t Tier) String() string {
	return string(t)
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further mutation.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PresentationState is the display bucket derived from lifecycle status,
// the planned window, and the current time. It is never persisted.
type PresentationState string

const (
	StateUpcoming    PresentationState = "upcoming"
	StateActive      PresentationState = "active"
	StateRecentEnded PresentationState = "recent-ended"
	StateCancelled   PresentationState = "cancelled"
)

func (s PresentationState) String() string {
	return string(s)
}
