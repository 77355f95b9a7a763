package slot

import (
	"time"

	"github.com/google/uuid"
)

// SweepDue returns the scheduled requests whose admitted window ended at
// least RecentEndedWindow ago. Those rows no longer affect any future
// admission and only need their lifecycle flipped to completed; callers
// persist the transition inside the same transaction as the triggering
// mutation, so the sweep stays lazy and idempotent.
func SweepDue(requests []*Request, plan Plan, now time.Time, cfg PoolConfig) []uuid.UUID {
	var due []uuid.UUID
	for _, r := range requests {
		if !r.IsScheduled() {
			continue
		}
		w, ok := plan.Window(r.ID())
		if !ok {
			continue
		}
		if !w.End.After(now.Add(-cfg.RecentEndedWindow)) {
			due = append(due, r.ID())
		}
	}
	return due
}
