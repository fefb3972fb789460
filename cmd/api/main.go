package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Lelo88/inventory-api/internal/config"
	"github.com/Lelo88/inventory-api/internal/db"
	"github.com/Lelo88/inventory-api/internal/docs"
	"github.com/Lelo88/inventory-api/internal/health"
	"github.com/Lelo88/inventory-api/internal/httpx"
	"github.com/Lelo88/inventory-api/internal/items"
	"github.com/Lelo88/inventory-api/internal/logging"
)

// appPool es lo que la app usa del pool: health (Ping), schema y repositorio (Exec/Query/QueryRow).
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type appDeps struct {
	newPool      func(ctx context.Context, url string) (appPool, error)
	ensureSchema func(ctx context.Context, database db.Execer) error
	serve        func(server *http.Server) error
}

// Indirecciones para poder testear main sin DB, señales ni os.Exit.
var (
	loadConfigFn = config.Load
	newPoolFn    = func(ctx context.Context, url string) (appPool, error) {
		pool, err := db.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	ensureSchemaFn = db.EnsureSchema
	serveFn        = func(server *http.Server) error {
		return server.ListenAndServe()
	}
	shutdownFn = func(timeout time.Duration, stop func(ctx context.Context) error) <-chan int {
		return gfshutdown.GracefulShutdown(context.Background(), timeout, map[string]gfshutdown.Operation{
			"http-server": stop,
		})
	}
	logOutput io.Writer = os.Stdout
	exitFn              = os.Exit
	fatalf              = func(err error) {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("startup failed")
	}
)

func main() {
	cfg, err := loadConfigFn()
	if err != nil {
		fatalf(err)
		return
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logOutput)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runErr error
	finished := make(chan struct{})
	go func() {
		runErr = run(ctx, cfg, logger, appDeps{
			newPool:      newPoolFn,
			ensureSchema: ensureSchemaFn,
			serve:        serveFn,
		})
		close(finished)
	}()

	// La señal cancela run y espera a que termine de drenar requests.
	wait := shutdownFn(cfg.ShutdownTimeout, func(shutdownCtx context.Context) error {
		logger.Info().Msg("shutdown signal received")
		cancel()
		select {
		case <-finished:
			return runErr
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	})

	select {
	case <-finished:
		if runErr != nil {
			fatalf(runErr)
			return
		}
		// Sin señal de por medio no hay código que esperar.
		if ctx.Err() == nil {
			return
		}
		exitWith(logger, <-wait)
	case code := <-wait:
		exitWith(logger, code)
	}
}

func exitWith(logger zerolog.Logger, code int) {
	logger.Info().Int("exit_code", code).Msg("bye")
	exitFn(code)
}

// run levanta pool, schema y servidor HTTP. Vuelve cuando ctx se cancela
// (después de un shutdown ordenado) o cuando el servidor falla.
func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, deps appDeps) error {
	policy, err := items.ParseUpdatePolicy(cfg.UpdatePolicy)
	if err != nil {
		return err
	}

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := deps.ensureSchema(ctx, pool); err != nil {
		return err
	}
	logger.Info().Msg("schema ensured")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           buildRouter(pool, cfg, policy, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("update_policy", string(policy)).Msg("listening")
		serveErr <- deps.serve(server)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func buildRouter(pool appPool, cfg config.Config, policy items.UpdatePolicy, logger zerolog.Logger) http.Handler {
	router := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	router.Use(httpx.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.Logging(logger))
	router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	router.Use(httpx.CORS(cfg.AllowedOrigin))

	// Errores de routing se manejan a nivel router.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(pool)
	router.Get("/", healthHandler.Root)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	repository := items.NewRepository(pool, policy)
	items.RegisterRoutes(router, items.NewHandler(items.NewService(repository)))

	docs.RegisterRoutes(router)

	return router
}
