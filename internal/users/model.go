package users

import "time"

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

type Provider string

const (
	ProviderLocal  Provider = "Local"
	ProviderGoogle Provider = "Google"
	ProviderGitHub Provider = "GitHub"
)

type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Role               Role      `json:"role"`
	AuthProvider       Provider  `json:"authProvider"`
	AuthProviderUserID string    `json:"-"`
	IsVerified         bool      `json:"isVerified"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AuthResult is returned by signup, signin and OAuth sign-in.
type AuthResult struct {
	UserID       int64    `json:"userId"`
	Email        string   `json:"email"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Role         Role     `json:"role"`
	Token        string   `json:"token"`
	IsVerified   bool     `json:"isVerified"`
	AuthProvider Provider `json:"authProvider"`
}

// OAuthProfile is the identity reported by an external provider.
type OAuthProfile struct {
	Provider       Provider
	ProviderUserID string
	Email          string
	FirstName      string
	LastName       string
}
