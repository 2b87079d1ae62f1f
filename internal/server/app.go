// Package server initializes and runs the Messagely server: it loads
// configuration, opens the database, applies migrations, wires the
// services, and serves the HTTP API until shutdown.
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
	"time"

	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/httpapi"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/messagely/internal/server/services"
	"github.com/sethvargo/go-retry"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	messageService *services.MessageService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	// The database may still be coming up; give it a few tries.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(1*time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ms := services.NewMessageService(db, rm)

	return &App{config: c, logger: logger, db: db, userService: us, messageService: ms}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.messageService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
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
