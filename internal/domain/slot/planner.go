package slot

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PoolConfig is the per-tier capacity and presentation settings. Timezone
// is display-only; no admission decision depends on it.
type PoolConfig struct {
	Tier              Tier
	MaxConcurrent     int
	Location          *time.Location
	RecentEndedWindow time.Duration
}

// Plan is the admitted window per request, derived from one planner run.
type Plan struct {
	windows map[uuid.UUID]Window
	order   []uuid.UUID
}

func (p Plan) Window(id uuid.UUID) (Window, bool) {
	w, ok := p.windows[id]
	return w, ok
}

// Order returns request IDs in admission order.
func (p Plan) Order() []uuid.UUID {
	return p.order
}

func (p Plan) Len() int {
	return len(p.order)
}

// ActiveCount is the number of admitted windows covering now.
func (p Plan) ActiveCount(now time.Time) int {
	n := 0
	for _, w := range p.windows {
		if w.Contains(now) {
			n++
		}
	}
	return n
}

// PlanAdmissions assigns every scheduled request an effective window such
// that at most capacity windows overlap at any instant. This is m-machine
// list scheduling with release times: requests are taken in requested-start
// order (FIFO by createdAt, then ID, on ties) and each is placed on the
// slot that frees up earliest, starting no earlier than its requested time.
//
// Slot free-at instants start at the zero time, so the plan is a pure
// function of the request set and capacity: replanning never depends on the
// wall clock, and a past-dated request is admitted at its requested time
// whenever a slot is free, which is what makes "feature now" work.
func PlanAdmissions(requests []*Request, capacity int) Plan {
	if capacity < 1 {
		capacity = 1
	}

	ordered := make([]*Request, 0, len(requests))
	for _, r := range requests {
		if r.IsScheduled() {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.RequestedStartAt().Equal(b.RequestedStartAt()) {
			return a.RequestedStartAt().Before(b.RequestedStartAt())
		}
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().Before(b.CreatedAt())
		}
		return a.ID().String() < b.ID().String()
	})

	freeAt := make([]time.Time, capacity)
	plan := Plan{
		windows: make(map[uuid.UUID]Window, len(ordered)),
		order:   make([]uuid.UUID, 0, len(ordered)),
	}

	for _, r := range ordered {
		earliest := 0
		for i := 1; i < capacity; i++ {
			if freeAt[i].Before(freeAt[earliest]) {
				earliest = i
			}
		}

		start := r.RequestedStartAt()
		if freeAt[earliest].After(start) {
			start = freeAt[earliest]
		}
		end := start.Add(r.Duration().Duration())
		freeAt[earliest] = end

		plan.windows[r.ID()] = Window{Start: start, End: end}
		plan.order = append(plan.order, r.ID())
	}

	return plan
}
