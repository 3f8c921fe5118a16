package mocks

import (
	"context"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// MockMovieGateway reports itself connected unless IsConnectedFunc says
// otherwise. Calling a method whose func field is nil panics.
type MockMovieGateway struct {
	domain.MovieGateway
	ConnectFunc       func(ctx context.Context, location string, creds domain.Credentials) error
	IsConnectedFunc   func() bool
	CloseFunc         func(ctx context.Context) error
	FindAllFunc       func(ctx context.Context) ([]domain.Movie, error)
	FindByIDFunc      func(ctx context.Context, id string) (domain.MovieLookup, error)
	InsertFunc        func(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	UpdateFunc        func(ctx context.Context, movie domain.Movie) (bool, error)
	DeleteFunc        func(ctx context.Context, id string) (bool, error)
	SearchByTitleFunc func(ctx context.Context, fragment string) ([]domain.Movie, error)
}

func (m *MockMovieGateway) Connect(ctx context.Context, location string, creds domain.Credentials) error {
	return m.ConnectFunc(ctx, location, creds)
}

func (m *MockMovieGateway) IsConnected() bool {
	if m.IsConnectedFunc == nil {
		return true
	}

	return m.IsConnectedFunc()
}

func (m *MockMovieGateway) Close(ctx context.Context) error {
	return m.CloseFunc(ctx)
}

func (m *MockMovieGateway) FindAll(ctx context.Context) ([]domain.Movie, error) {
	return m.FindAllFunc(ctx)
}

func (m *MockMovieGateway) FindByID(ctx context.Context, id string) (domain.MovieLookup, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *MockMovieGateway) Insert(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	return m.InsertFunc(ctx, movie)
}

func (m *MockMovieGateway) Update(ctx context.Context, movie domain.Movie) (bool, error) {
	return m.UpdateFunc(ctx, movie)
}

func (m *MockMovieGateway) Delete(ctx context.Context, id string) (bool, error) {
	return m.DeleteFunc(ctx, id)
}

func (m *MockMovieGateway) SearchByTitle(ctx context.Context, fragment string) ([]domain.Movie, error) {
	return m.SearchByTitleFunc(ctx, fragment)
}
