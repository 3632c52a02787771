package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"resume-builder-api/internal/shared/auth"
	"resume-builder-api/internal/shared/telemetry"
)

// TokenSigner issues access tokens for authenticated users.
type TokenSigner interface {
	Sign(id auth.Identity) (string, error)
}

type Service struct {
	Repo     Repo
	Tokens   TokenSigner
	HashCost int
}

func NewService(repo Repo, tokens TokenSigner) *Service {
	return &Service{Repo: repo, Tokens: tokens, HashCost: bcrypt.DefaultCost}
}

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a local user and returns a signed token for it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	if err := s.ready(); err != nil {
		return AuthResult{}, err
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return AuthResult{}, ErrMissingFields
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost())
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         RoleUser,
		AuthProvider: ProviderLocal,
	}
	if err := s.Repo.Create(ctx, &user); err != nil {
		return AuthResult{}, err
	}
	telemetry.Info("user.signup", map[string]any{"user_id": user.ID})
	return s.issue(user)
}

// Signin checks local credentials. Unknown email, OAuth-only accounts and
// wrong passwords all yield ErrInvalidCredentials.
func (s *Service) Signin(ctx context.Context, in SigninInput) (AuthResult, error) {
	if err := s.ready(); err != nil {
		return AuthResult{}, err
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return AuthResult{}, ErrMissingFields
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.AuthProvider != ProviderLocal || user.PasswordHash == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(user)
}

// AuthenticateOrCreateOAuthUser resolves a provider identity to a user,
// creating a verified account on first sign-in.
func (s *Service) AuthenticateOrCreateOAuthUser(ctx context.Context, p OAuthProfile) (AuthResult, error) {
	if err := s.ready(); err != nil {
		return AuthResult{}, err
	}
	email := normalizeEmail(p.Email)
	if p.Provider == "" || strings.TrimSpace(p.ProviderUserID) == "" || email == "" {
		return AuthResult{}, ErrMissingFields
	}

	user, err := s.Repo.GetByProvider(ctx, p.Provider, p.ProviderUserID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup provider identity: %w", err)
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrProviderMismatch
	} else if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	user = User{
		Email:              email,
		FirstName:          strings.TrimSpace(p.FirstName),
		LastName:           strings.TrimSpace(p.LastName),
		Role:               RoleUser,
		AuthProvider:       p.Provider,
		AuthProviderUserID: p.ProviderUserID,
		IsVerified:         true,
	}
	if err := s.Repo.Create(ctx, &user); err != nil {
		return AuthResult{}, err
	}
	telemetry.Info("user.oauth_created", map[string]any{"user_id": user.ID, "provider": string(p.Provider)})
	return s.issue(user)
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if userID <= 0 {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) issue(user User) (AuthResult, error) {
	token, err := s.Tokens.Sign(auth.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResult{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		Token:        token,
		IsVerified:   user.IsVerified,
		AuthProvider: user.AuthProvider,
	}, nil
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil || s.Tokens == nil {
		return errors.New("users service not configured")
	}
	return nil
}

func (s *Service) hashCost() int {
	if s.HashCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.HashCost
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
