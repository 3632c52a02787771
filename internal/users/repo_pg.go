package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, email, password_hash, first_name, last_name, role, auth_provider,
  auth_provider_user_id, is_verified, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user *User) error {
	const query = `
INSERT INTO users (email, password_hash, first_name, last_name, role, auth_provider, auth_provider_user_id, is_verified, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.Email,
		nullableString(user.PasswordHash),
		user.FirstName,
		user.LastName,
		string(user.Role),
		string(user.AuthProvider),
		nullableString(user.AuthProviderUserID),
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1 LIMIT 1`, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *PGRepo) GetByProvider(ctx context.Context, provider Provider, providerUserID string) (User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE auth_provider = $1 AND auth_provider_user_id = $2 LIMIT 1`,
		string(provider), providerUserID)
}

func (r *PGRepo) getOne(ctx context.Context, query string, args ...any) (User, error) {
	var user User
	var passwordHash sql.NullString
	var providerUserID sql.NullString
	var role, provider string
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.FirstName,
		&user.LastName,
		&role,
		&provider,
		&providerUserID,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Role = Role(role)
	user.AuthProvider = Provider(provider)
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if providerUserID.Valid {
		user.AuthProviderUserID = providerUserID.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
