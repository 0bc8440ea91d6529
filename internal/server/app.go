// Package server wires the settings server together: configuration, the
// database and its migrations, the capability catalog, the settings service
// and the gRPC endpoint. It also handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophsettings/internal/logging"
	"github.com/dmitrijs2005/gophsettings/internal/server/catalog"
	"github.com/dmitrijs2005/gophsettings/internal/server/config"
	"github.com/dmitrijs2005/gophsettings/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsettings/internal/server/services"

	gs "github.com/dmitrijs2005/gophsettings/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	settingsService *services.SettingsService
}

// NewApp opens the database, runs migrations and loads the capability
// catalog. Nothing is served until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel)

	db, rm, err := repomanager.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := rm.RunMigrations(migrateCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	cat, err := catalog.Load(ctx, c.CatalogSource, catalog.S3Options{
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		Region:        c.S3Region,
		BaseEndpoint:  c.S3BaseEndpoint,
		DefaultBucket: c.S3Bucket,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog load error: %w", err)
	}

	cat, err = cat.WithMode(c.Mode)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog mode error: %w", err)
	}

	logger.Info(ctx, "Capability catalog loaded",
		"mode", cat.Mode, "languages", len(cat.Languages), "providers", len(cat.Providers))

	ss := services.NewSettingsService(db, rm, cat, c, logger)

	return &App{config: c, logger: logger, db: db, settingsService: ss}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.settingsService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// waits up to ShutdownTimeout for in-flight calls before closing the
// database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	<-ctx.Done()

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(app.config.ShutdownTimeout):
		app.logger.Warn(context.Background(), "Shutdown timeout exceeded")
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
