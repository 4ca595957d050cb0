package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ugcgo/ugcgo-backend/internal/admin"
	"github.com/ugcgo/ugcgo-backend/internal/audit"
	"github.com/ugcgo/ugcgo-backend/internal/config"
	"github.com/ugcgo/ugcgo-backend/internal/email"
	"github.com/ugcgo/ugcgo-backend/internal/entitlement"
	httpserver "github.com/ugcgo/ugcgo-backend/internal/http"
	"github.com/ugcgo/ugcgo-backend/internal/identity"
	"github.com/ugcgo/ugcgo-backend/internal/jwt"
	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/metrics"
	"github.com/ugcgo/ugcgo-backend/internal/plan"
	"github.com/ugcgo/ugcgo-backend/internal/quota"
	"github.com/ugcgo/ugcgo-backend/internal/rbac"
	"github.com/ugcgo/ugcgo-backend/internal/storage"
	"github.com/ugcgo/ugcgo-backend/internal/store"
	"github.com/ugcgo/ugcgo-backend/internal/supabase"
	"github.com/ugcgo/ugcgo-backend/internal/telegram"
	"github.com/ugcgo/ugcgo-backend/internal/ydb"
)

var (
	ErrFailedToLoadConfig        = errors.New("failed to load config")
	ErrFailedToConnectYDB        = errors.New("failed to connect to YDB")
	ErrFailedToInitStorageClient = errors.New("failed to initialize storage client")
	ErrFailedToInitEmailClient   = errors.New("failed to initialize email client")
	ErrFailedToConnectRedis      = errors.New("failed to connect to redis")
)

// App is the wired application
type App struct {
	Config  *config.Config
	Handler http.Handler
	closers []func() error
}

// Close releases external connections in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Initialize sets up all dependencies and returns the HTTP router
func Initialize(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return Build(ctx, cfg)
}

// Build wires the application from an already loaded config
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	tgClient, err := telegram.NewClient(cfg)
	if err != nil {
		// alerts are optional
		slog.Warn("Telegram alerts disabled", "error", err)
		tgClient = nil
	}

	log := logger.New(tgClient)
	slog.SetDefault(log)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	supabaseClient := supabase.NewClient(cfg, supabase.WithObserver(m))

	var db store.Database = supabaseClient
	if cfg.StoreBackend == config.StoreYDB {
		ydbClient, err := ydb.NewYDBClient(ctx, cfg, m)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToConnectYDB, err)
		}
		app.closers = append(app.closers, ydbClient.Close)
		db = ydbClient
	}

	var resolver identity.Resolver = identity.NewRemoteResolver(supabaseClient)
	if jwtManager := jwt.NewJWTManager(cfg.SupabaseJWTSecret); jwtManager != nil {
		resolver = identity.NewLocalResolver(jwtManager)
	}

	catalog := plan.DefaultCatalog()
	ledger := audit.NewService(db, log)

	entitlementOpts := []entitlement.Option{
		entitlement.WithLedger(ledger),
		entitlement.WithRecorder(m),
	}

	if cfg.PhotoStorageEnabled() {
		storageClient, err := storage.NewClient(ctx, cfg)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("%w: %w", ErrFailedToInitStorageClient, err)
		}
		entitlementOpts = append(entitlementOpts, entitlement.WithPhotoChecker(storageClient))
	}

	if cfg.RaceGuard == config.RaceGuardRedis {
		redisClient, err := quota.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("%w: %w", ErrFailedToConnectRedis, err)
		}
		app.closers = append(app.closers, redisClient.Close)
		entitlementOpts = append(entitlementOpts, entitlement.WithReserver(
			quota.NewRedisReservations(redisClient, "ugcgo:quota:", quota.WithHold(cfg.QuotaHold)),
		))
	}

	adminOpts := []admin.Option{
		admin.WithLedger(ledger),
		admin.WithRecorder(m),
	}
	if cfg.EmailEnabled() {
		emailClient, err := email.NewClient(ctx, cfg)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("%w: %w", ErrFailedToInitEmailClient, err)
		}
		if emailClient.IsConfigured() {
			adminOpts = append(adminOpts, admin.WithNotifier(emailClient))
		}
	}

	entitlementService := entitlement.NewService(db, catalog, entitlementOpts...)
	policy := rbac.NewRBAC(cfg.AdminEmails)
	adminService := admin.NewService(db, policy, adminOpts...)
	planService := plan.NewService(catalog)

	server := httpserver.NewServer(entitlementService, adminService, planService)

	var metricsHandler http.Handler
	var observer httpserver.HTTPObserver
	if m != nil {
		metricsHandler = m.Handler()
		observer = m
	}
	app.Handler = httpserver.SetupRouter(server, resolver, policy, metricsHandler, observer)

	slog.Info("Application initialized successfully",
		"store", cfg.StoreBackend,
		"race_guard", cfg.RaceGuard,
		"photo_storage", cfg.PhotoStorageEnabled(),
		"email", cfg.EmailEnabled(),
	)
	return app, nil
}
