// Package server initializes and runs the sync server. It opens the
// database, applies migrations, wires the services and starts the HTTP API,
// shutting everything down gracefully on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kaman1990/field-service-sub001/internal/logging"
	"github.com/kaman1990/field-service-sub001/internal/server/config"
	"github.com/kaman1990/field-service-sub001/internal/server/httpapi"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/repomanager"
	"github.com/kaman1990/field-service-sub001/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	catalogService *services.CatalogService
	fileService    *services.FileService
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, m, c)
	cs := services.NewCatalogService(db, m)
	fs := services.NewFileService(db, m, c)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    us,
		catalogService: cs,
		fileService:    fs,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.catalogService, app.fileService, app.config.SecretKey)

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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
