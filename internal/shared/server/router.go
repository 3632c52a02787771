package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	googleauth "resume-builder-api/internal/auth"
	"resume-builder-api/internal/resumes"
	"resume-builder-api/internal/services/health"
	"resume-builder-api/internal/shared/config"
	"resume-builder-api/internal/shared/metrics"
	"resume-builder-api/internal/shared/server/middleware"
	"resume-builder-api/internal/shared/server/respond"
	"resume-builder-api/internal/users"
)

const authRateLimitGroup = "AUTH"

// RouterDeps carries everything the router needs; bootstrap builds it.
type RouterDeps struct {
	Config        config.Config
	Tokens        middleware.TokenVerifier
	Gatherer      prometheus.Gatherer
	Health        *health.Service
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	GoogleAuth    *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Metrics(),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "AI Resume Builder API"})
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", metrics.Handler(deps.Gatherer))
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, health.Status{OK: true, Database: "memory"})
			return
		}
		st := deps.Health.Check(c.Request.Context())
		if !st.OK {
			respond.JSON(c, http.StatusServiceUnavailable, st)
			return
		}
		respond.OK(c, st)
	})

	authGroup := api.Group("/auth")
	if rules := authRateRules(deps.Config); rules != nil {
		authGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        rules,
			DefaultGroup: authRateLimitGroup,
		}))
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authGroup)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(authGroup)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Tokens))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterProfileRoutes(protected)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(protected.Group("/resumes"))
	}

	return r
}

// authRateRules returns nil when auth rate limiting is switched off.
func authRateRules(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.AuthRateLimit <= 0 {
		return nil
	}
	burst := cfg.AuthRateBurst
	if burst <= 0 {
		burst = 1
	}
	return map[string]middleware.RateLimitRule{
		authRateLimitGroup: {Rate: cfg.AuthRateLimit, Burst: burst},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
