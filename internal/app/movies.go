package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

type MovieRequest struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Director        string  `json:"director"`
	ReleaseYear     int     `json:"releaseYear"`
	DurationMinutes int     `json:"durationMinutes"`
	Genre           string  `json:"genre"`
	Rating          float64 `json:"rating"`
}

type MovieResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Director        string  `json:"director"`
	ReleaseYear     int     `json:"releaseYear"`
	DurationMinutes int     `json:"durationMinutes"`
	Genre           string  `json:"genre"`
	Rating          float64 `json:"rating"`
}

type MovieListResponse struct {
	Movies []MovieResponse `json:"movies"`
}

type AverageDurationResponse struct {
	AverageDuration float64 `json:"averageDuration"`
	Display         string  `json:"display"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ListMovies returns the whole catalog, or the titles matching ?title= when
// it is present and non-blank.
func (app *Application) ListMovies(w http.ResponseWriter, r *http.Request) {
	var (
		movies []domain.Movie
		err    error
	)

	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		movies, err = app.movies.ReadAll(r.Context())
	} else {
		movies, err = app.movies.SearchByTitle(r.Context(), title)
	}

	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	resp := MovieListResponse{
		Movies: toMovieResponses(movies),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lookup, err := app.movies.ReadByID(r.Context(), id)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	movie, ok := lookup.Get()
	if !ok {
		app.movieErrorResponse(w, r, &domain.NotFoundError{ID: strings.TrimSpace(id)})
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input MovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie := toDomainMovie(input)
	movie.Normalize()

	err = app.movies.Create(r.Context(), movie)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	logger.Info("movie created", "id", movie.ID)

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/movies/%s", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateMovie rewrites the movie named by the path. The id itself cannot be
// changed: a body id that differs from the path is rejected.
func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var input MovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bodyID := strings.TrimSpace(input.ID)
	if bodyID != "" && bodyID != id {
		app.failedValidationResponse(w, r, &domain.ValidationError{Field: "id", Message: "cannot be changed"})
		return
	}

	movie := toDomainMovie(input)
	movie.ID = id
	movie.Normalize()

	err = app.movies.Update(r.Context(), movie)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	logger.Info("movie updated", "id", movie.ID)

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id := chi.URLParam(r, "id")

	deleted, err := app.movies.DeleteByID(r.Context(), id)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	if !deleted {
		app.movieErrorResponse(w, r, &domain.NotFoundError{ID: strings.TrimSpace(id)})
		return
	}

	logger.Info("movie deleted", "id", strings.TrimSpace(id))

	resp := MessageResponse{
		Message: "movie successfully deleted",
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAverageDuration(w http.ResponseWriter, r *http.Request) {
	avg, err := app.movies.AverageDuration(r.Context())
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	resp := AverageDurationResponse{
		AverageDuration: avg,
		Display:         fmt.Sprintf("Average duration: %.2f minutes", avg),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toDomainMovie(input MovieRequest) domain.Movie {
	return domain.Movie{
		ID:          input.ID,
		Title:       input.Title,
		Director:    input.Director,
		ReleaseYear: input.ReleaseYear,
		Duration:    input.DurationMinutes,
		Genre:       input.Genre,
		Rating:      input.Rating,
	}
}

func toMovieResponses(movies []domain.Movie) []MovieResponse {
	responses := make([]MovieResponse, len(movies))

	for i, movie := range movies {
		responses[i] = toMovieResponse(movie)
	}

	return responses
}

func toMovieResponse(movie domain.Movie) MovieResponse {
	return MovieResponse{
		ID:              movie.ID,
		Title:           movie.Title,
		Director:        movie.Director,
		ReleaseYear:     movie.ReleaseYear,
		DurationMinutes: movie.Duration,
		Genre:           movie.Genre,
		Rating:          movie.Rating,
	}
}
