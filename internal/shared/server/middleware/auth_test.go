package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder-api/internal/shared/auth"
)

func newAuthRouter(tokens *auth.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(tokens))
	router.GET("/api/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c)})
	})
	router.OPTIONS("/api/profile", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter(auth.NewTokenIssuer("secret", "", time.Hour))

	req := httptest.NewRequest(http.MethodOptions, "/api/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	router := newAuthRouter(auth.NewTokenIssuer("secret", "", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Unauthorized: No token provided" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	router := newAuthRouter(auth.NewTokenIssuer("secret", "", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !json.Valid(resp.Body.Bytes()) {
		t.Fatalf("expected json body")
	}
}

func TestAuthSetsUserID(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", "", time.Hour)
	token, err := tokens.Sign(auth.Identity{UserID: 9, Email: "u@example.com", Role: "User"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	router := newAuthRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 9 {
		t.Fatalf("expected userId 9, got %d", body.UserID)
	}
}
