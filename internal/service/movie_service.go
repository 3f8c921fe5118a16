package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/internal/domain"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
)

// MovieService is the only object presentation code holds. It validates
// every mutation before it reaches the gateway and passes gateway errors
// through unchanged.
type MovieService struct {
	gateway   domain.MovieGateway
	validator *validator.Validate
	logger    *slog.Logger
}

func NewMovieService(gateway domain.MovieGateway, validator *validator.Validate, logger *slog.Logger) (*MovieService, error) {
	if gateway == nil {
		return nil, errors.New("gateway cannot be nil")
	}

	return &MovieService{
		gateway:   gateway,
		validator: validator,
		logger:    logger,
	}, nil
}

func (s *MovieService) Connect(ctx context.Context, location, username, password string) error {
	return s.gateway.Connect(ctx, location, domain.Credentials{Username: username, Password: password})
}

func (s *MovieService) IsConnected() bool {
	return s.gateway.IsConnected()
}

func (s *MovieService) Close(ctx context.Context) error {
	return s.gateway.Close(ctx)
}

// requireConnected fails fast so a disconnected call never reaches the store.
func (s *MovieService) requireConnected(op string) error {
	if !s.gateway.IsConnected() {
		return &domain.ConnectionError{Op: op, Err: domain.ErrNotConnected}
	}

	return nil
}

func (s *MovieService) Create(ctx context.Context, movie domain.Movie) error {
	movie.Normalize()

	err := s.validate(movie)
	if err != nil {
		return err
	}

	err = s.requireConnected("create movie")
	if err != nil {
		return err
	}

	_, err = s.gateway.Insert(ctx, movie)

	return err
}

func (s *MovieService) ReadAll(ctx context.Context) ([]domain.Movie, error) {
	err := s.requireConnected("read movies")
	if err != nil {
		return nil, err
	}

	return s.gateway.FindAll(ctx)
}

func (s *MovieService) ReadByID(ctx context.Context, id string) (domain.MovieLookup, error) {
	id, err := requireNonBlank("id", id)
	if err != nil {
		return domain.NotFound(), err
	}

	err = s.requireConnected("read movie")
	if err != nil {
		return domain.NotFound(), err
	}

	return s.gateway.FindByID(ctx, id)
}

// Update rewrites every field except the id. A missing row is reported as a
// *domain.NotFoundError.
func (s *MovieService) Update(ctx context.Context, movie domain.Movie) error {
	movie.Normalize()

	err := s.validate(movie)
	if err != nil {
		return err
	}

	err = s.requireConnected("update movie")
	if err != nil {
		return err
	}

	ok, err := s.gateway.Update(ctx, movie)
	if err != nil {
		return err
	}

	if !ok {
		return &domain.NotFoundError{ID: movie.ID}
	}

	return nil
}

func (s *MovieService) DeleteByID(ctx context.Context, id string) (bool, error) {
	id, err := requireNonBlank("id", id)
	if err != nil {
		return false, err
	}

	err = s.requireConnected("delete movie")
	if err != nil {
		return false, err
	}

	return s.gateway.Delete(ctx, id)
}

func (s *MovieService) SearchByTitle(ctx context.Context, fragment string) ([]domain.Movie, error) {
	fragment, err := requireNonBlank("fragment", fragment)
	if err != nil {
		return nil, err
	}

	err = s.requireConnected("search movies")
	if err != nil {
		return nil, err
	}

	return s.gateway.SearchByTitle(ctx, fragment)
}

// AverageDuration is the mean running time over every stored movie, or 0
// when the catalog is empty.
func (s *MovieService) AverageDuration(ctx context.Context) (float64, error) {
	movies, err := s.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	if len(movies) == 0 {
		return 0, nil
	}

	var total float64
	for _, m := range movies {
		total += float64(m.Duration)
	}

	return total / float64(len(movies)), nil
}

func (s *MovieService) validate(movie domain.Movie) error {
	err := appvalidator.ValidateMovie(s.validator, movie)
	if err != nil {
		s.logger.Debug("movie rejected", "id", movie.ID, "error", err)
	}

	return err
}

func requireNonBlank(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &domain.ValidationError{Field: field, Message: appvalidator.ErrNotBlank}
	}

	return value, nil
}
