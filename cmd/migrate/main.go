// Command migrate applies the SQL migrations in migrations/ to the database
// described by the DB_* environment variables. It shells out to the atlas CLI,
// which must be on PATH.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"featured-slots/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := atlasexec.NewClient(".", "atlas")
	if err != nil {
		slog.Error("failed to initialize atlas client", "error", err)
		os.Exit(1)
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    cfg.DB.BuildDSN(),
		DirURL: "file://migrations",
	})
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("migrations applied",
		"current", res.Current,
		"target", res.Target,
		"applied", len(res.Applied),
	)
}
