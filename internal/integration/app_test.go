package integration_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/metinatakli/movie-catalog/internal/app"
	"github.com/metinatakli/movie-catalog/internal/config"
	"github.com/metinatakli/movie-catalog/internal/repository"
	"github.com/metinatakli/movie-catalog/internal/service"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
)

// TestApp holds the application under test together with a separate
// connection used to arrange and inspect table state.
type TestApp struct {
	App     *app.Application
	Service *service.MovieService
	Gateway *repository.PostgresMovieRepository
	DB      *pgx.Conn
	Config  config.Config
}

func newTestApp(cfg config.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := appvalidator.NewValidator()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	defer cancel()

	db, err := pgx.Connect(ctx, cfg.Store.Location)
	if err != nil {
		return nil, err
	}

	gateway := repository.NewPostgresMovieRepository(logger)

	movies, err := service.NewMovieService(gateway, validator, logger)
	if err != nil {
		db.Close(context.Background())
		return nil, err
	}

	err = movies.Connect(ctx, cfg.Store.Location, cfg.Store.Username, cfg.Store.Password)
	if err != nil {
		db.Close(context.Background())
		return nil, err
	}

	application := app.NewApp(cfg, logger, validator, movies)

	return &TestApp{
		App:     application,
		Service: movies,
		Gateway: gateway,
		DB:      db,
		Config:  cfg,
	}, nil
}

func (a *TestApp) Close() {
	a.Service.Close(context.Background())
	a.DB.Close(context.Background())
}

func testConfig(dsn string) config.Config {
	cfg := config.Default()
	cfg.Env = "test"
	cfg.Seed = false
	cfg.Store.Location = dsn
	cfg.Store.Username = dbUser
	cfg.Store.Password = dbPassword
	cfg.Store.ConnectTimeout = 10 * time.Second

	return cfg
}
