package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	httpapi "github.com/aussiebroadwan/registrar/internal/auth/http"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the registrar with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	secrets    Secrets
	keyManager *jwtx.KeyManager

	// Services
	tokenService        *service.TokenService
	registrationService *service.RegistrationService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService // nil in ephemeral mode

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "registrar",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	db, err := OpenStore(ctx, cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	app.secrets, err = LoadSecrets(cfg, app.logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Persistent keys live in the store, so it must be open first
	app.keyManager, err = InitAuthKeys(ctx, cfg, db, app.secrets.Sealer, app.logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("registrar starting",
		"port", app.cfg.Port,
		"issuer", app.cfg.Issuer,
		"registration_path", app.cfg.RegistrationPath,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down registrar...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing client store", "error", err)
		return err
	}

	app.logger.Info("registrar stopped")
	return nil
}

func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		KeyManager:      app.keyManager,
		Clients:         app.db.Clients(),
		Hasher:          app.secrets.Hasher,
		Issuer:          app.cfg.Issuer,
		AccessTTL:       app.cfg.AccessTokenTTL,
		RegistrationTTL: app.cfg.RegistrationTokenTTL,
	}

	app.registrationService = &service.RegistrationService{
		Clients:     app.db.Clients(),
		Tokens:      app.tokenService,
		Issuer:      app.tokenService,
		Credentials: service.RandomCredentials{},
		Hasher:      app.secrets.Hasher,
		Sealer:      app.secrets.Sealer,
		Config: service.RegistrationConfig{
			RegistrationScope:  app.cfg.RegistrationScope,
			ConfigurationScope: app.cfg.ConfigurationScope,
			Defaults: domain.RegistrationDefaults{
				TokenEndpointAuthMethod:  app.cfg.DefaultAuthMethod,
				IDTokenSignedResponseAlg: app.cfg.Algorithm,
			},
		},
	}

	app.bootstrapService = NewBootstrapService(app.cfg, app.db, app.secrets)

	// Ephemeral keys never reach the store, so there is nothing to expire
	if app.cfg.KeyStorageMode == KeyStoragePersistent {
		app.housekeepingService = service.NewHousekeepingService(
			app.db.SigningKeys(),
			app.logger,
			app.cfg.HousekeepingInterval,
		)
	}
}

// NewBootstrapService builds the service shared by the HTTP endpoint and
// the bootstrap command.
func NewBootstrapService(cfg Config, db store.Store, secrets Secrets) *service.BootstrapService {
	return &service.BootstrapService{
		Clients:       db.Clients(),
		Credentials:   service.RandomCredentials{},
		Hasher:        secrets.Hasher,
		Sealer:        secrets.Sealer,
		Token:         cfg.BootstrapToken,
		DefaultScopes: []string{cfg.RegistrationScope},
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.keyManager.KeySet, app.db, app.logger, httpapi.RouterOptions{
		Issuer:           app.cfg.Issuer,
		RegistrationPath: app.cfg.RegistrationPath,
		BuildVersion:     BuildVersion,
		RateLimits:       httpx.RateLimitsFromEnv(),
	})

	router.TokenService = app.tokenService
	router.RegistrationService = app.registrationService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
