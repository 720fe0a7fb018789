package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/stockroom/internal/catalog"
	"github.com/xenking/stockroom/internal/domain/auth"
	"github.com/xenking/stockroom/internal/domain/order"
	"github.com/xenking/stockroom/internal/domain/store"
	"github.com/xenking/stockroom/internal/handler"
	"github.com/xenking/stockroom/internal/storage/memory"
	"github.com/xenking/stockroom/pkg/health"
	"github.com/xenking/stockroom/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	s, err := openCatalog(cfg)
	if err != nil {
		return errors.Wrap(err, "open catalog")
	}
	lg.Info("Catalog loaded",
		zap.String("source", catalogSource(cfg)),
		zap.Int("products", len(s.All())),
		zap.Int("active", len(s.Products())),
		zap.Int("total_quantity", s.TotalQuantity()),
	)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", time.Second, health.NotEmptyCheck("catalog", func() int {
		return len(s.All())
	}))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc", time.Second, health.GCMaxPauseCheck(time.Second))

	// Repositories.
	orderRepo := memory.NewOrderRepository()
	apikeyRepo := memory.NewAPIKeyRepository()
	if cfg.AdminAPIKey != "" {
		apikeyRepo.Add(&auth.APIKeyInfo{
			ID:      "admin",
			Name:    "admin",
			KeyHash: auth.Hash([]byte(cfg.APIKeyPepper), cfg.AdminAPIKey),
			Scopes:  []string{auth.ScopeCatalogWrite},
		})
	} else {
		lg.Warn("No admin API key configured, catalog changes are disabled")
	}

	// Domain services.
	orderService, err := order.NewService(s, orderRepo, m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create order service")
	}

	// HTTP handlers.
	h := handler.NewHandler(handler.HandlerConfig{Currency: cfg.Currency}, s, orderService)
	securityHandler := handler.NewSecurityHandler(apikeyRepo, []byte(cfg.APIKeyPepper))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux, securityHandler)

	api := otelhttp.NewHandler(mux, "stockroom",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
		otelhttp.WithFilter(func(r *http.Request) bool { return !isProbe(r) }),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(api,
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(lg),
			httpmiddleware.Recovery(),
			httpmiddleware.LogRequests(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", handler.APIKeyHeader, httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:     cfg.RateLimit.Max,
				Window:  cfg.RateLimit.Window,
				KeyFunc: httpmiddleware.HeaderOrIP(handler.APIKeyHeader),
				Skip:    isProbe,
			}),
		),
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	return g.Wait()
}

func openCatalog(cfg *Config) (*store.Store, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default()
	}
	return catalog.Open(cfg.CatalogFile)
}

func catalogSource(cfg *Config) string {
	if cfg.CatalogFile == "" {
		return "default"
	}
	return cfg.CatalogFile
}

func isProbe(r *http.Request) bool {
	return r.URL.Path == "/livez" || r.URL.Path == "/readyz"
}
