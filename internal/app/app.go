package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invertar/invertar/internal/domain"
	httpapi "github.com/invertar/invertar/internal/http"
	"github.com/invertar/invertar/internal/obs"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/internal/store/drivers/sqlite"
	"github.com/invertar/invertar/pkg/jwtx"
	"github.com/invertar/invertar/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the inventory service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	authService         *service.AuthService
	accountService      *service.AccountService
	organizationService *service.OrganizationService
	inventoryService    *service.InventoryService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// A missing signing secret is fatal: the service must never fall back to an
// unsigned or default-signed session.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invertar",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := jwtx.NewCodec(
		[]byte(cfg.SigningSecret),
		cfg.Issuer,
		cfg.AccessTTL,
		cfg.RefreshTTL,
		[]string{
			string(domain.RoleUser),
			string(domain.RoleAdmin),
			string(domain.RoleSuperAdmin),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec (is INVERTAR_SIGNING_SECRET set?): %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	obs.Init()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("invertar starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invertar...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invertar stopped")
	return nil
}

// databaseDSN builds the sqlite connection string for a file database. The
// _pragma options are replayed by the driver on every pooled connection:
// WAL keeps readers from blocking the writer, and the busy timeout makes
// concurrent writers queue instead of failing with SQLITE_BUSY.
func databaseDSN(file string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		file,
	)
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(databaseDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store: app.db,
		Codec: app.codec,
	}
	app.accountService = &service.AccountService{
		Store:      app.db,
		CodeTTL:    app.cfg.AccessCodeTTL,
		CodeLength: app.cfg.AccessCodeLength,
	}
	app.organizationService = &service.OrganizationService{Store: app.db}
	app.inventoryService = &service.InventoryService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:      app.db,
		Token:      app.cfg.BootstrapToken,
		BcryptCost: app.cfg.BcryptCost,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		httpapi.CookieWriter{Secure: app.cfg.Env == "prod"},
		app.cfg.BcryptCost,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.OrganizationService = app.organizationService
	router.InventoryService = app.inventoryService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
