//go:build unit

package slot_test

import (
	"testing"
	"time"

	"featured-slots/internal/domain/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoolConfig() slot.PoolConfig {
	return slot.PoolConfig{
		Tier:              slot.TierSpotlight,
		MaxConcurrent:     3,
		Location:          time.UTC,
		RecentEndedWindow: 24 * time.Hour,
	}
}

func TestStateOf(t *testing.T) {
	cfg := testPoolConfig()
	now := baseTime.Add(6 * time.Hour)

	cases := []struct {
		name   string
		mutate func(r *slot.Request)
		window slot.Window
		expect slot.PresentationState
	}{
		{
			name:   "window covering now is active",
			window: slot.Window{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
			expect: slot.StateActive,
		},
		{
			name:   "window starting later is upcoming",
			window: slot.Window{Start: now.Add(time.Hour), End: now.Add(3 * time.Hour)},
			expect: slot.StateUpcoming,
		},
		{
			name:   "window already over is recent-ended",
			window: slot.Window{Start: now.Add(-3 * time.Hour), End: now.Add(-time.Hour)},
			expect: slot.StateRecentEnded,
		},
		{
			name:   "window ending exactly now is recent-ended",
			window: slot.Window{Start: now.Add(-2 * time.Hour), End: now},
			expect: slot.StateRecentEnded,
		},
		{
			name:   "missing window is upcoming",
			window: slot.Window{},
			expect: slot.StateUpcoming,
		},
		{
			name:   "cancelled overrides any window",
			mutate: func(r *slot.Request) { require.NoError(t, r.Cancel()) },
			window: slot.Window{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
			expect: slot.StateCancelled,
		},
		{
			name:   "completed always reads as recent-ended",
			mutate: func(r *slot.Request) { require.NoError(t, r.Complete()) },
			window: slot.Window{},
			expect: slot.StateRecentEnded,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := scheduledSlot("item", baseTime, 2, 0)
			if tc.mutate != nil {
				tc.mutate(r)
			}
			assert.Equal(t, tc.expect, slot.StateOf(r, tc.window, now, cfg))
		})
	}
}

func TestPresent(t *testing.T) {
	t.Run("formats window bounds in the pool timezone", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		cfg := testPoolConfig()
		cfg.Location = tokyo

		r := scheduledSlot("item", baseTime, 2, 0)
		plan := slot.PlanAdmissions([]*slot.Request{r}, 1)
		p := slot.Present(r, plan, baseTime.Add(time.Hour), cfg)

		assert.Equal(t, slot.StateActive, p.State)
		// 2025-06-01 12:00 UTC is 21:00 in Tokyo.
		assert.Equal(t, "2025-06-01 21:00 JST", p.EffectiveStartLocal)
		assert.Equal(t, "2025-06-01 23:00 JST", p.EffectiveEndLocal)
	})

	t.Run("leaves local strings empty without a window", func(t *testing.T) {
		r := scheduledSlot("item", baseTime, 2, 0)
		p := slot.Present(r, slot.Plan{}, baseTime, testPoolConfig())

		assert.Empty(t, p.EffectiveStartLocal)
		assert.Empty(t, p.EffectiveEndLocal)
		assert.True(t, p.Window.IsZero())
	})
}

func TestPresentQueue(t *testing.T) {
	cfg := testPoolConfig()
	cfg.MaxConcurrent = 1

	t.Run("orders active, upcoming, then recent-ended", func(t *testing.T) {
		ended := scheduledSlot("ended", baseTime, 1, 0)
		active := scheduledSlot("active", baseTime.Add(1*time.Hour), 4, time.Second)
		waitingA := scheduledSlot("waiting-a", baseTime.Add(2*time.Hour), 2, 2*time.Second)
		waitingB := scheduledSlot("waiting-b", baseTime.Add(2*time.Hour), 2, 3*time.Second)

		requests := []*slot.Request{waitingB, ended, active, waitingA}
		plan := slot.PlanAdmissions(requests, cfg.MaxConcurrent)
		now := baseTime.Add(2 * time.Hour)

		queue := slot.PresentQueue(requests, plan, now, cfg)
		require.Len(t, queue, 4)

		assert.Equal(t, "active", queue[0].Request.ResourceKey().String())
		assert.Equal(t, slot.StateActive, queue[0].State)
		assert.Nil(t, queue[0].QueuePosition)

		assert.Equal(t, "waiting-a", queue[1].Request.ResourceKey().String())
		require.NotNil(t, queue[1].QueuePosition)
		assert.Equal(t, 1, *queue[1].QueuePosition)

		assert.Equal(t, "waiting-b", queue[2].Request.ResourceKey().String())
		require.NotNil(t, queue[2].QueuePosition)
		assert.Equal(t, 2, *queue[2].QueuePosition)

		assert.Equal(t, "ended", queue[3].Request.ResourceKey().String())
		assert.Equal(t, slot.StateRecentEnded, queue[3].State)
		assert.Nil(t, queue[3].QueuePosition)
	})

	t.Run("drops ended rows past the recent-ended horizon", func(t *testing.T) {
		old := scheduledSlot("old", baseTime, 1, 0)
		plan := slot.PlanAdmissions([]*slot.Request{old}, cfg.MaxConcurrent)

		now := baseTime.Add(1*time.Hour + cfg.RecentEndedWindow)
		queue := slot.PresentQueue([]*slot.Request{old}, plan, now, cfg)
		assert.Empty(t, queue)

		justInside := now.Add(-time.Minute)
		queue = slot.PresentQueue([]*slot.Request{old}, plan, justInside, cfg)
		require.Len(t, queue, 1)
		assert.Equal(t, slot.StateRecentEnded, queue[0].State)
	})

	t.Run("queue positions restart from one on every presentation", func(t *testing.T) {
		a := scheduledSlot("a", baseTime, 2, 0)
		b := scheduledSlot("b", baseTime, 2, time.Second)
		c := scheduledSlot("c", baseTime, 2, 2*time.Second)

		requests := []*slot.Request{a, b, c}
		plan := slot.PlanAdmissions(requests, cfg.MaxConcurrent)
		now := baseTime.Add(-time.Hour)

		queue := slot.PresentQueue(requests, plan, now, cfg)
		require.Len(t, queue, 3)
		for i, p := range queue {
			require.NotNil(t, p.QueuePosition)
			assert.Equal(t, i+1, *p.QueuePosition)
		}

		// After the head is cancelled, the survivors renumber from one.
		require.NoError(t, a.Cancel())
		plan = slot.PlanAdmissions(requests, cfg.MaxConcurrent)
		queue = slot.PresentQueue(requests, plan, now, cfg)
		require.Len(t, queue, 2)
		assert.Equal(t, "b", queue[0].Request.ResourceKey().String())
		assert.Equal(t, 1, *queue[0].QueuePosition)
		assert.Equal(t, 2, *queue[1].QueuePosition)
	})
}

func TestSweepDue(t *testing.T) {
	cfg := testPoolConfig()
	cfg.MaxConcurrent = 1

	ended := scheduledSlot("ended", baseTime, 1, 0)
	active := scheduledSlot("active", baseTime.Add(2*time.Hour), 100, time.Second)

	requests := []*slot.Request{ended, active}
	plan := slot.PlanAdmissions(requests, cfg.MaxConcurrent)

	t.Run("nothing due inside the recent-ended window", func(t *testing.T) {
		now := baseTime.Add(2 * time.Hour)
		assert.Empty(t, slot.SweepDue(requests, plan, now, cfg))
	})

	t.Run("row completes once the horizon passes", func(t *testing.T) {
		now := baseTime.Add(1*time.Hour + cfg.RecentEndedWindow)
		due := slot.SweepDue(requests, plan, now, cfg)
		require.Len(t, due, 1)
		assert.Equal(t, ended.ID(), due[0])
	})

	t.Run("terminal rows are never due", func(t *testing.T) {
		done := scheduledSlot("done", baseTime, 1, 0)
		require.NoError(t, done.Complete())
		p := slot.PlanAdmissions([]*slot.Request{done}, 1)
		now := baseTime.Add(100 * cfg.RecentEndedWindow)
		assert.Empty(t, slot.SweepDue([]*slot.Request{done}, p, now, cfg))
	})
}
