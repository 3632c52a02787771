package resumes

import "context"

// Repo persists whole résumé aggregates.
//
// FindByID returns (nil, nil) when no row exists and does not check ownership.
// Create always assigns a fresh id; any id already on the aggregate is ignored.
// Update fully replaces every child collection and fails with ErrNotFound when
// the row is gone, or ErrVersionConflict when the stored version moved on.
type Repo interface {
	FindByID(ctx context.Context, id int64) (*Resume, error)
	FindByUserID(ctx context.Context, userID int64) ([]*Resume, error)
	Create(ctx context.Context, r *Resume) error
	Update(ctx context.Context, r *Resume) error
	Delete(ctx context.Context, id int64) error
}
