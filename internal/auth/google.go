package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-builder-api/internal/shared/server/respond"
	"resume-builder-api/internal/shared/telemetry"
	"resume-builder-api/internal/users"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Authenticator resolves a provider identity to a signed-in user.
type Authenticator interface {
	AuthenticateOrCreateOAuthUser(ctx context.Context, p users.OAuthProfile) (users.AuthResult, error)
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// UIRedirectURL receives ?token=... after a successful callback. When
	// empty the callback answers with the auth payload as JSON.
	UIRedirectURL string
}

// GoogleService handles the Google OAuth authorization-code flow.
type GoogleService struct {
	oauthConfig *oauth2.Config
	users       Authenticator
	uiRedirect  string
	userInfoURL string
	stateTTL    time.Duration
	states      StateStore
}

// NewGoogleService builds the service. A nil states falls back to an
// in-process store, which only works for a single API instance.
func NewGoogleService(cfg GoogleConfig, authn Authenticator, states StateStore) *GoogleService {
	if states == nil {
		states = NewMemoryStateStore()
	}
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		users:       authn,
		uiRedirect:  cfg.UIRedirectURL,
		userInfoURL: defaultUserInfoURL,
		stateTTL:    5 * time.Minute,
		states:      states,
	}
}

// RegisterRoutes attaches Google auth routes to the /api/auth group.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/google/start", s.start)
	rg.GET("/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Fail(c, http.StatusInternalServerError, "Google auth not configured")
		return
	}

	state := uuid.NewString()
	if err := s.states.Put(c.Request.Context(), state, s.stateTTL); err != nil {
		telemetry.Error("auth.google_state_failed", map[string]any{"error": err})
		respond.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	if !s.configured() {
		respond.Fail(c, http.StatusInternalServerError, "Google auth not configured")
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Fail(c, http.StatusBadRequest, "Missing state or code")
		return
	}
	valid, err := s.states.Consume(c.Request.Context(), state)
	if err != nil {
		telemetry.Error("auth.google_state_failed", map[string]any{"error": err})
		respond.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !valid {
		respond.Fail(c, http.StatusBadRequest, "Invalid or expired state")
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.google_exchange_failed", map[string]any{"error": err})
		respond.Fail(c, http.StatusBadRequest, "Failed to exchange code")
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		telemetry.Warn("auth.google_userinfo_failed", map[string]any{"error": err})
		respond.Fail(c, http.StatusBadGateway, "Failed to fetch user profile")
		return
	}
	if info.Sub == "" || info.Email == "" {
		respond.Fail(c, http.StatusBadGateway, "Invalid user profile")
		return
	}

	result, err := s.users.AuthenticateOrCreateOAuthUser(ctx, users.OAuthProfile{
		Provider:       users.ProviderGoogle,
		ProviderUserID: info.Sub,
		Email:          info.Email,
		FirstName:      info.GivenName,
		LastName:       info.FamilyName,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrProviderMismatch):
			respond.Fail(c, http.StatusConflict, "An account with this email already exists with a different sign-in method")
		case errors.Is(err, users.ErrMissingFields):
			respond.Fail(c, http.StatusBadRequest, "Missing required fields")
		default:
			telemetry.Error("auth.google_signin_failed", map[string]any{"error": err})
			respond.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if s.uiRedirect == "" {
		respond.Success(c, http.StatusOK, result)
		return
	}
	redirectURL, err := appendToken(s.uiRedirect, result.Token)
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

type googleUserInfo struct {
	Sub        string `json:"sub"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// The v2 endpoint reports "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	info.Email = strings.TrimSpace(info.Email)
	return info, nil
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
