//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Catalog entries the e2e suites promote. Admission never reads these;
// they only decorate queue and history listings.
var referenceEvents = []struct {
	ResourceKey string
	Name        string
	Date        time.Time
}{
	{"event-summer-fest", "Summer Festival", time.Date(2025, 7, 20, 18, 0, 0, 0, time.UTC)},
	{"event-autumn-expo", "Autumn Expo", time.Date(2025, 10, 3, 10, 0, 0, 0, time.UTC)},
	{"event-winter-gala", "Winter Gala", time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)},
}

func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()
	for _, ev := range referenceEvents {
		_, err := pool.Exec(ctx,
			"INSERT INTO events (resource_key, name, event_date) VALUES ($1, $2, $3) ON CONFLICT (resource_key) DO NOTHING",
			ev.ResourceKey, ev.Name, ev.Date)
		if err != nil {
			return err
		}
	}
	return nil
}

// ResetDB truncates mutable state and reseeds the catalog so every
// subtest starts from the same fixture.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "TRUNCATE slot_requests, events"); err != nil {
		return err
	}
	return SeedReferenceData(pool)
}

// CreateSlotRequest inserts one row directly, bypassing the command layer.
// Useful for arranging terminal rows the API cannot produce on demand.
func CreateSlotRequest(t *testing.T, db DBLike, tier, resourceKey string, start time.Time, hours int, status string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO slot_requests (id, tier, resource_key, requested_start_at, duration_hours, status) VALUES ($1, $2, $3, $4, $5, $6)",
		id, tier, resourceKey, start, hours, status)
	require.NoError(t, err)
	return id
}

func CountSlotRequests(t *testing.T, db DBLike, tier, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM slot_requests WHERE tier = $1 AND status = $2", tier, status).Scan(&n)
	require.NoError(t, err)
	return n
}
