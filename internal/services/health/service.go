package health

import (
	"context"
	"database/sql"
	"time"

	"resume-builder-api/internal/shared/storage/db"
)

// Service reports process and database liveness.
type Service struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewService(sqlDB *sql.DB) *Service {
	return &Service{DB: sqlDB, Timeout: 2 * time.Second}
}

// Status describes the current health. Database is "memory" when the process
// runs on in-memory repositories.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

func (s *Service) Check(ctx context.Context) Status {
	if s.DB == nil {
		return Status{OK: true, Database: "memory"}
	}
	if err := db.Ping(ctx, s.DB, s.Timeout); err != nil {
		return Status{OK: false, Database: "unreachable"}
	}
	return Status{OK: true, Database: "up"}
}
