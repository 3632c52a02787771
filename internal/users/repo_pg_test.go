package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateAssignsID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	user := User{Email: "a@example.com", PasswordHash: "hash", FirstName: "A", LastName: "B", Role: RoleUser, AuthProvider: ProviderLocal}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@example.com", "hash", "A", "B", "User", "Local", nil, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	if err := repo.Create(context.Background(), &user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("expected id 7, got %d", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &User{Email: "a@example.com", Role: RoleUser, AuthProvider: ProviderLocal})
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPGRepoGetByEmailNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByEmail(context.Background(), "missing@example.com"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByProviderScansNullables(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role", "auth_provider",
		"auth_provider_user_id", "is_verified", "created_at", "updated_at",
	}).AddRow(int64(3), "g@example.com", nil, "G", "U", "User", "Google", "g-1", true, now, now)
	mock.ExpectQuery("FROM users WHERE auth_provider").
		WithArgs("Google", "g-1").
		WillReturnRows(rows)

	user, err := repo.GetByProvider(context.Background(), ProviderGoogle, "g-1")
	if err != nil {
		t.Fatalf("GetByProvider: %v", err)
	}
	if user.PasswordHash != "" || user.AuthProviderUserID != "g-1" || !user.IsVerified {
		t.Fatalf("unexpected user: %+v", user)
	}
}
