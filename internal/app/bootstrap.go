package app

import (
	"context"
	"errors"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// sampleMovie is inserted into an empty catalog when seeding is enabled.
var sampleMovie = domain.Movie{
	ID:          "INT2010",
	Title:       "Inception",
	Director:    "Christopher Nolan",
	ReleaseYear: 2010,
	Duration:    148,
	Genre:       "Science Fiction",
	Rating:      9.0,
}

// bootstrap connects to the configured store and seeds it. A failed connect
// is logged and the server starts disconnected; clients can retry through
// POST /v1/connection.
func (app *Application) bootstrap(ctx context.Context) {
	err := app.connectStore(ctx, app.config.Store.Location, app.config.Store.Username, app.config.Store.Password)
	if err != nil {
		app.logger.Warn("starting without a store connection", "error", domain.DisplayMessage(err))
		return
	}

	if !app.config.Seed {
		return
	}

	err = app.seed(ctx)
	if err != nil {
		app.logger.Error("failed to seed catalog", "error", err)
	}
}

func (app *Application) connectStore(ctx context.Context, location, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, app.config.Store.ConnectTimeout)
	defer cancel()

	return app.movies.Connect(ctx, location, username, password)
}

func (app *Application) seed(ctx context.Context) error {
	movies, err := app.movies.ReadAll(ctx)
	if err != nil {
		return err
	}

	if len(movies) > 0 {
		return nil
	}

	err = app.movies.Create(ctx, sampleMovie)
	if err != nil && !errors.Is(err, domain.ErrConstraint) {
		return err
	}

	app.logger.Info("seeded empty catalog", "id", sampleMovie.ID)

	return nil
}
