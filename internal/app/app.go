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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/internal/config"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/repository"
	"github.com/metinatakli/movie-catalog/internal/service"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"github.com/metinatakli/movie-catalog/internal/vcs"
	"github.com/riandyrn/otelchi"
)

const serviceName = "movie-catalog"

var (
	version = vcs.Version()
)

type Application struct {
	config    config.Config
	logger    *slog.Logger
	validator *validator.Validate
	movies    *service.MovieService
}

func NewApp(cfg config.Config, logger *slog.Logger, validator *validator.Validate, movies *service.MovieService) *Application {
	return &Application{
		config:    cfg,
		logger:    logger,
		validator: validator,
		movies:    movies,
	}
}

// Run resolves the configuration from args, wires the store and serves HTTP
// until SIGINT or SIGTERM.
func Run(args []string) error {
	cfg, err := config.Load(args, os.Getenv)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("Version:\t%s\n", version)
		return nil
	}

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		config:    cfg,
		logger:    slog.New(slog.NewTextHandler(os.Stdout, nil)),
		validator: appvalidator.NewValidator(),
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	gateway, err := NewGateway(cfg.Store.Driver, app.logger)
	if err != nil {
		return err
	}

	app.movies, err = service.NewMovieService(gateway, app.validator, app.logger)
	if err != nil {
		return err
	}

	app.bootstrap(context.Background())

	defer func() {
		err := app.movies.Close(context.Background())
		if err != nil {
			app.logger.Error("failed to close store connection", "error", err)
		}
	}()

	return app.serve()
}

// NewGateway picks the store backend once at startup.
func NewGateway(driver string, logger *slog.Logger) (domain.MovieGateway, error) {
	switch driver {
	case config.DriverPostgres:
		return repository.NewPostgresMovieRepository(logger), nil
	case config.DriverSQLite:
		return repository.NewSQLiteMovieRepository(logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "driver", app.config.Store.Driver)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.requestLogger)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/v1/connection", func(r chi.Router) {
		r.Get("/", app.GetConnection)
		r.Post("/", app.Connect)
		r.Delete("/", app.Disconnect)
	})

	r.With(app.requireConnection).Route("/v1/movies", func(r chi.Router) {
		r.Get("/", app.ListMovies)
		r.Post("/", app.CreateMovie)
		r.Get("/average-duration", app.GetAverageDuration)
		r.Get("/{id}", app.GetMovie)
		r.Put("/{id}", app.UpdateMovie)
		r.Delete("/{id}", app.DeleteMovie)
	})

	return r
}
