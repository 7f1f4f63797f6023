// @title ProjectCostAI API
// @version 1.0
// @description Project cost, timeline and risk estimation backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/projectcostai/projectcostai/docs"
	"github.com/projectcostai/projectcostai/internal/api/handlers"
	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/api/router"
	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/config"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/estimation"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
	"github.com/projectcostai/projectcostai/internal/ratelimit"
	mongorepo "github.com/projectcostai/projectcostai/internal/repository/mongo"
	"github.com/projectcostai/projectcostai/internal/repository/postgres"
	"github.com/projectcostai/projectcostai/internal/services"
	"github.com/projectcostai/projectcostai/internal/settings"
	"github.com/projectcostai/projectcostai/internal/storage"
	"github.com/projectcostai/projectcostai/internal/worker"
	"github.com/projectcostai/projectcostai/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stores is the persistence backend picked by DB_DRIVER
type stores struct {
	users       user.Repository
	predictions prediction.Repository
	pingers     map[string]handlers.Pinger
	close       func(context.Context) error
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.ErrorWithErr(err, "Failed to close database")
		}
	}()

	window := ratelimit.Config{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window}
	var limiter ratelimit.Store
	var memLimiter *ratelimit.MemoryStore
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr(), err)
		}
		limiter = ratelimit.NewRedisStore(rdb, window)
		st.pingers["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.With("addr", cfg.Redis.Addr()).Info("Rate limiter backed by redis")
	} else {
		memLimiter = ratelimit.NewMemoryStore(window)
		limiter = memLimiter
	}

	estimator, err := estimation.New(cfg.Estimator, log)
	if err != nil {
		return err
	}

	uploads, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("configure uploads: %w", err)
	}
	var uploadDir string
	if local, ok := uploads.(*storage.Local); ok {
		uploadDir = local.Dir()
	}

	val, err := validator.NewWithEmailPattern(cfg.Auth.SignupEmailPattern)
	if err != nil {
		return fmt.Errorf("signup email pattern: %w", err)
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	userService := services.NewUserService(st.users, tokens, cfg.Auth.BCryptCost, log)
	predictionService := services.NewPredictionService(st.predictions, st.users, estimator, log)

	secureCookie := cfg.Server.Environment == "production"
	h := &router.Handlers{
		Health:     handlers.NewHealthHandler(st.pingers, log),
		Auth:       handlers.NewAuthHandler(userService, log, val, cfg.Auth.TokenExpiry, secureCookie),
		Prediction: handlers.NewPredictionHandler(predictionService, log, val),
		History:    handlers.NewHistoryHandler(predictionService),
		Report:     handlers.NewReportHandler(predictionService, log),
		Admin:      handlers.NewAdminHandler(userService, predictionService),
		Settings:   handlers.NewSettingsHandler(settings.NewStore()),
		User:       handlers.NewUserHandler(userService, val),
		Upload:     handlers.NewUploadHandler(uploads, cfg.Storage.MaxUploadSize, log),
	}
	if providers := oauthProviders(cfg.OAuth); len(providers) > 0 {
		h.OAuth = handlers.NewOAuthHandler(providers, userService, log, cfg.Server.FrontendURL, cfg.Auth.TokenExpiry, secureCookie)
	}

	flood := middleware.NewFloodGuard(cfg.RateLimit.GlobalRPS, cfg.RateLimit.GlobalBurst)

	stats := worker.NewStatsRefresher(st.users, st.predictions, log)
	stats.AddSweeper("flood_guard", flood.Cleanup)
	if memLimiter != nil {
		stats.AddSweeper("window_limit", memLimiter.Evict)
	}
	if err := stats.Start(cfg.Worker.StatsSchedule); err != nil {
		return err
	}
	defer stats.Stop()

	server := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.New(cfg, log, h, router.Guards{
			Tokens:    tokens,
			Roles:     userService,
			Window:    limiter,
			Flood:     flood,
			UploadDir: uploadDir,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        server.Addr,
			"environment": cfg.Server.Environment,
			"db_driver":   cfg.Database.Driver,
		}).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Database.Driver == "mongo" {
		db, err := mongorepo.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.With("database", cfg.Database.Name).Info("Connected to mongodb")
		return &stores{
			users:       mongorepo.NewUserRepository(db),
			predictions: mongorepo.NewPredictionRepository(db),
			pingers: map[string]handlers.Pinger{
				"database": handlers.PingFunc(func(ctx context.Context) error {
					return db.Client().Ping(ctx, nil)
				}),
			},
			close: func(ctx context.Context) error { return mongorepo.Disconnect(ctx, db) },
		}, nil
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.RunMigrations(db, migrations.GetFS())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"driver":     cfg.Database.Driver,
		"migrations": applied,
	}).Info("Connected to database")

	return &stores{
		users:       postgres.NewUserRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		pingers:     map[string]handlers.Pinger{"database": db},
		close:       func(context.Context) error { return db.Close() },
	}, nil
}

func oauthProviders(cfg config.OAuthConfig) map[string]handlers.ExternalLogin {
	providers := make(map[string]handlers.ExternalLogin)
	if c := cfg.Google; c.ClientID != "" {
		providers["google"] = auth.NewGoogleProvider(c.ClientID, c.ClientSecret, c.RedirectURL)
	}
	if c := cfg.GitHub; c.ClientID != "" {
		providers["github"] = auth.NewGitHubProvider(c.ClientID, c.ClientSecret, c.RedirectURL)
	}
	return providers
}
