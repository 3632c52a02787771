package main

// Run database migrations:
//   go run ./cmd/migrate          (up)
//   go run ./cmd/migrate status
//   go run ./cmd/migrate down     (roll back the latest migration)

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"resume-builder-api/internal/shared/config"
	"resume-builder-api/internal/shared/storage/db"
	"resume-builder-api/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := run(ctx, cmd, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": cmd, "error": err})
		sqlDB.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, sqlDB *sql.DB) error {
	switch cmd {
	case "up":
		return db.RunMigrations(ctx, sqlDB)
	case "status":
		return db.MigrationStatus(ctx, sqlDB)
	case "down":
		return db.RollbackLast(ctx, sqlDB)
	default:
		return fmt.Errorf("unknown command %q (want up, status or down)", cmd)
	}
}
