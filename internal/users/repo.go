package users

import "context"

type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByProvider(ctx context.Context, provider Provider, providerUserID string) (User, error)
}
