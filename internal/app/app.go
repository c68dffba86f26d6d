package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sweetsalty/backend/db"
	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/catalog"
	"github.com/sweetsalty/backend/internal/domain/order"
	"github.com/sweetsalty/backend/internal/domain/session"
	"github.com/sweetsalty/backend/internal/domain/user"
	"github.com/sweetsalty/backend/internal/handler"
	"github.com/sweetsalty/backend/internal/storage/memory"
	"github.com/sweetsalty/backend/internal/storage/postgres"
	"github.com/sweetsalty/backend/pkg/health"
	"github.com/sweetsalty/backend/pkg/httpmiddleware"
)

// repositories bundles the storage-backend specific implementations behind
// the domain interfaces.
type repositories struct {
	catalog  catalog.Repository
	users    user.Repository
	orders   order.Repository
	carts    cart.Repository
	sessions session.Repository
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var repos repositories
	switch cfg.Storage {
	case StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		repos = repositories{
			catalog:  postgres.NewCatalogRepository(pool),
			users:    postgres.NewUserRepository(pool),
			orders:   postgres.NewOrderRepository(pool),
			carts:    postgres.NewCartRepository(pool),
			sessions: postgres.NewSessionRepository(pool),
		}
	case StorageMemory:
		store, err := setupMemoryStore(ctx, lg, cfg)
		if err != nil {
			return err
		}
		repos = repositories{
			catalog:  store.Catalog(),
			users:    store.Users(),
			orders:   store.Orders(),
			carts:    store.Carts(),
			sessions: store.Sessions(),
		}
	default:
		return errors.Errorf("unknown storage backend %q", cfg.Storage)
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	orderService := order.NewService(repos.catalog, repos.orders)
	sessionManager := session.NewManager(repos.sessions, []byte(cfg.Session.Pepper), cfg.Session.TTL)
	startSessionCleanup(ctx, lg, repos.sessions)

	h := handler.New(
		handler.Config{ImageBaseURL: cfg.ImageBaseURL},
		repos.catalog,
		orderService,
		repos.users,
		repos.carts,
		sessionManager,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("sweetsalty-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// startSessionCleanup periodically purges expired sessions, so revoked and
// lapsed tokens do not accumulate beyond their lazy eviction on access.
func startSessionCleanup(ctx context.Context, lg *zap.Logger, sessions session.Repository) {
	cleaner, ok := sessions.(interface {
		DeleteExpired(ctx context.Context) (int64, error)
	})
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := cleaner.DeleteExpired(ctx)
				if err != nil {
					lg.Error("Session cleanup failed", zap.Error(err))
					continue
				}
				if n > 0 {
					lg.Info("Expired sessions removed", zap.Int64("count", n))
				}
			}
		}
	}()
}

// setupMemoryStore builds the in-memory backend: seed the menu, restore the
// snapshot when one exists, and flush it periodically plus once on shutdown.
func setupMemoryStore(ctx context.Context, lg *zap.Logger, cfg *Config) (*memory.Store, error) {
	store, err := memory.NewSeeded(db.SeedMenu)
	if err != nil {
		return nil, errors.Wrap(err, "seed menu")
	}
	if cfg.StorePath == "" {
		return store, nil
	}

	if err := store.LoadFile(cfg.StorePath); err != nil {
		return nil, errors.Wrap(err, "load store snapshot")
	}
	lg.Info("Memory store snapshot enabled",
		zap.String("path", cfg.StorePath),
		zap.Duration("interval", cfg.SnapshotEvery),
	)

	go func() {
		ticker := time.NewTicker(cfg.SnapshotEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				if err := store.SaveFile(cfg.StorePath); err != nil {
					lg.Error("Final store snapshot failed", zap.Error(err))
				}
				return
			case <-ticker.C:
				if err := store.SaveFile(cfg.StorePath); err != nil {
					lg.Error("Store snapshot failed", zap.Error(err))
				}
			}
		}
	}()
	return store, nil
}
