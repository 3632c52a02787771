package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder-api/internal/shared/server/middleware"
	"resume-builder-api/internal/shared/server/respond"
	"resume-builder-api/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the public signup/signin routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signup)
	rg.POST("/signin", h.signin)
}

// RegisterProfileRoutes attaches routes that require an authenticated user.
func (h *Handler) RegisterProfileRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.profile)
}

func (h *Handler) signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	result, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Fail(c, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrEmailTaken):
			respond.Fail(c, http.StatusBadRequest, "User with this email already exists")
		default:
			telemetry.Error("user.signup_failed", map[string]any{"error": err})
			respond.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respond.Success(c, http.StatusCreated, result)
}

func (h *Handler) signin(c *gin.Context) {
	var in SigninInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Missing email or password")
		return
	}
	result, err := h.Svc.Signin(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Fail(c, http.StatusBadRequest, "Missing email or password")
		case errors.Is(err, ErrInvalidCredentials):
			respond.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			telemetry.Error("user.signin_failed", map[string]any{"error": err})
			respond.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respond.Success(c, http.StatusOK, result)
}

func (h *Handler) profile(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	respond.Success(c, http.StatusOK, identity)
}
