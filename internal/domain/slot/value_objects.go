package slot

import (
	"errors"
	"time"
)

const (
	MinDurationHours = 1
	MaxDurationHours = 168
)

var ErrInvalidDuration = errors.New("duration must be between 1 and 168 hours")

// DurationHours is the whole-hour length of a booking.
type DurationHours struct {
	hours int
}

func NewDurationHours(hours int) (DurationHours, error) {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return DurationHours{}, ErrInvalidDuration
	}
	return DurationHours{hours: hours}, nil
}

func (d DurationHours) Hours() int {
	return d.hours
}

func (d DurationHours) Duration() time.Duration {
	return time.Duration(d.hours) * time.Hour
}

// Window is an admitted half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// ResourceKey identifies the promoted item in the external catalog.
// Opaque here: existence is the catalog's concern, not ours.
type ResourceKey struct {
	value string
}

var ErrEmptyResourceKey = errors.New("resource key must not be empty")

func NewResourceKey(value string) (ResourceKey, error) {
	if value == "" {
		return ResourceKey{}, ErrEmptyResourceKey
	}
	return ResourceKey{value: value}, nil
}

func (k ResourceKey) String() string {
	return k.value
}
