// Package server initializes and runs the backend application: it opens the
// database, applies migrations, wires the services and starts the HTTP API
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/search"
	"github.com/dmitrijs2005/fincontext/internal/server/config"
	"github.com/dmitrijs2005/fincontext/internal/server/httpapi"
	"github.com/dmitrijs2005/fincontext/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fincontext/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

// NewApp builds the full service graph. It refuses to start when no signing
// secret is configured.
func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is not configured")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	es := search.NewElasticClient(cfg.ElasticEndpoint, cfg.ElasticAPIKey)
	agent := search.NewAgentClient(cfg.KibanaEndpoint, cfg.ElasticAPIKey, cfg.AgentID)

	userService := services.NewUserService(rm.Users(db), cfg)
	chatService := services.NewChatService(agent, logger)
	statsService := services.NewStatsService(es, cfg.TransactionsIndex, logger)

	handler := httpapi.NewHandler(userService, chatService, statsService, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		router: httpapi.NewRouter(handler),
	}, nil
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

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http server shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
