package slot

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// LocalTimeLayout is how admitted windows render in the pool's timezone.
const LocalTimeLayout = "2006-01-02 15:04 MST"

// Presented is a request decorated with its display state. QueuePosition
// is set only for requests whose window has not started yet.
type Presented struct {
	Request             *Request
	State               PresentationState
	Window              Window
	QueuePosition       *int
	EffectiveStartLocal string
	EffectiveEndLocal   string
}

// StateOf classifies one request against now. A completed row has no
// recomputable window anymore, so it always lands in the recent-ended
// bucket; the sweep guarantees it only reached that status after the
// recent window elapsed, and history rendering is the only caller that
// sees it.
func StateOf(r *Request, w Window, now time.Time, cfg PoolConfig) PresentationState {
	switch r.Status() {
	case StatusCancelled:
		return StateCancelled
	case StatusCompleted:
		return StateRecentEnded
	}
	if w.IsZero() {
		return StateUpcoming
	}
	if !w.End.After(now) {
		return StateRecentEnded
	}
	if w.Contains(now) {
		return StateActive
	}
	return StateUpcoming
}

// Present renders a single request without queue ranking.
func Present(r *Request, plan Plan, now time.Time, cfg PoolConfig) Presented {
	w, _ := plan.Window(r.ID())
	p := Presented{
		Request: r,
		State:   StateOf(r, w, now, cfg),
		Window:  w,
	}
	if !w.IsZero() {
		p.EffectiveStartLocal = w.Start.In(cfg.Location).Format(LocalTimeLayout)
		p.EffectiveEndLocal = w.End.In(cfg.Location).Format(LocalTimeLayout)
	}
	return p
}

// PresentQueue renders the live queue: active requests first, then
// upcoming ones in admission order with 1-based queue positions, then
// recently ended rows still inside the recent-ended window. Scheduled
// rows whose window ended beyond that horizon are omitted; the sweep
// completes them on the next mutation.
func PresentQueue(requests []*Request, plan Plan, now time.Time, cfg PoolConfig) []Presented {
	byID := make(map[uuid.UUID]*Request, len(requests))
	for _, r := range requests {
		byID[r.ID()] = r
	}

	var active, upcoming, ended []Presented
	for _, id := range plan.Order() {
		r := byID[id]
		if r == nil {
			continue
		}
		p := Present(r, plan, now, cfg)
		switch p.State {
		case StateActive:
			active = append(active, p)
		case StateUpcoming:
			upcoming = append(upcoming, p)
		case StateRecentEnded:
			if now.Sub(p.Window.End) < cfg.RecentEndedWindow {
				ended = append(ended, p)
			}
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if !a.Window.Start.Equal(b.Window.Start) {
			return a.Window.Start.Before(b.Window.Start)
		}
		if !a.Request.CreatedAt().Equal(b.Request.CreatedAt()) {
			return a.Request.CreatedAt().Before(b.Request.CreatedAt())
		}
		return a.Request.ID().String() < b.Request.ID().String()
	})
	for i := range upcoming {
		pos := i + 1
		upcoming[i].QueuePosition = &pos
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Window.Start.Before(active[j].Window.Start)
	})
	sort.SliceStable(ended, func(i, j int) bool {
		return ended[i].Window.End.After(ended[j].Window.End)
	})

	out := make([]Presented, 0, len(active)+len(upcoming)+len(ended))
	out = append(out, active...)
	out = append(out, upcoming...)
	out = append(out, ended...)
	return out
}
