// Package server wires configuration, logging, the database pool, services
// and both listeners (REST and gRPC health) into one runnable App with
// graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"github.com/dmitrijs2005/tyrekeeper/internal/logging"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/config"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/tyrekeeper/internal/server/grpc"
)

const insecureDefaultSecret = "secretKey"

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	tyreService *services.TyreService
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, logging.Options{Backend: c.LogBackend, Level: c.LogLevel, Format: c.LogFormat})

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := dbx.OpenPostgres(c.DSN(),
		dbx.SessionSettings{TimeZone: c.DBTimeZone},
		dbx.PoolOptions{MaxOpenConns: c.DBMaxOpenConns, MaxIdleConns: c.DBMaxIdleConns, ConnMaxLifetime: c.DBConnLifetime},
	)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, rm, c, logger)
	ts := services.NewTyreService(db, rm, logger)

	return &App{config: c, logger: logger, db: db, repomanager: rm, userService: us, tyreService: ts}, nil
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

func (app *App) startHTTPServer(ctx context.Context) error {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, httpapi.RouterConfig{
		Users:     app.userService,
		Tyres:     app.tyreService,
		DB:        app.db,
		SecretKey: []byte(app.config.SecretKey),
	})

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context) error {

	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval)

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// Run applies migrations, serves until a signal arrives or a listener
// fails, then closes the pool. A listener failure is returned.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if app.config.SecretKey == insecureDefaultSecret {
		app.logger.Warn(ctx, "using the built-in development secret key; set JWT_KEY in production")
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	// the first listener failure stops the other one and becomes Run's result
	serve := func(start func(context.Context) error) {
		defer wg.Done()
		if err := start(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			errOnce.Do(func() { firstErr = err })
			cancelFunc()
		}
	}

	wg.Add(2)
	go serve(app.startHTTPServer)
	go serve(app.startGRPCServer)

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return firstErr
}
