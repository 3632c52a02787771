package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	googleauth "resume-builder-api/internal/auth"
	"resume-builder-api/internal/resumes"
	"resume-builder-api/internal/services/health"
	"resume-builder-api/internal/shared/auth"
	"resume-builder-api/internal/shared/config"
	"resume-builder-api/internal/shared/metrics"
	"resume-builder-api/internal/shared/server"
	"resume-builder-api/internal/shared/storage/db"
	"resume-builder-api/internal/shared/telemetry"
	"resume-builder-api/internal/users"
)

// App holds the wired dependencies of one API process.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Redis          *redis.Client
	Registry       *prometheus.Registry
	Tokens         *auth.TokenIssuer
	UsersRepo      users.Repo
	ResumesRepo    resumes.Repo
	UsersService   *users.Service
	ResumesService *resumes.Service
	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
	GoogleAuth     *googleauth.GoogleService
	Health         *health.Service
}

// Build prepares every dependency and the router. Without DATABASE_URL in a
// dev-like environment it falls back to in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-insecure-secret"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := buildRedis(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Redis:    redisClient,
		Registry: metrics.NewRegistry(),
		Tokens:   auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiration),
		Health:   health.NewService(sqlDB),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		Tokens:        app.Tokens,
		Gatherer:      app.Registry,
		Health:        app.Health,
		UserHandler:   app.UsersHandler,
		ResumeHandler: app.ResumesHandler,
		GoogleAuth:    app.GoogleAuth,
	})

	return app, nil
}

// Close releases the database pool and Redis client, if any.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

// buildRedis returns nil when REDIS_URL is unset; OAuth state then stays in process.
func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
			return nil, nil
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo, app.Tokens)
	app.ResumesService = resumes.NewService(app.ResumesRepo)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
	var states googleauth.StateStore
	if app.Redis != nil {
		states = googleauth.NewRedisStateStore(app.Redis)
	}
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:      app.Config.GoogleClientID,
		ClientSecret:  app.Config.GoogleClientSecret,
		RedirectURL:   app.Config.GoogleRedirectURL,
		UIRedirectURL: app.Config.UIRedirectURL,
	}, app.UsersService, states)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
