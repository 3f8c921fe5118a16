package domain

import (
	"context"
	"fmt"
	"strings"
)

const (
	MinReleaseYear = 1888
	MaxReleaseYear = 2100

	MinDuration = 1
	MaxDuration = 999

	MinRating = 0.0
	MaxRating = 10.0
)

// Movie is the single catalog entity. Identity is defined by ID alone.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Director    string  `json:"director"`
	ReleaseYear int     `json:"releaseYear"`
	Duration    int     `json:"durationMinutes"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
}

// NewMovie builds a trimmed Movie. Only a blank id is rejected here; the
// remaining rules are enforced by the service before any write.
func NewMovie(id, title, director string, releaseYear, duration int, genre string, rating float64) (Movie, error) {
	m := Movie{
		ID:          id,
		Title:       title,
		Director:    director,
		ReleaseYear: releaseYear,
		Duration:    duration,
		Genre:       genre,
		Rating:      rating,
	}
	m.Normalize()

	if m.ID == "" {
		return Movie{}, &ValidationError{Field: "id", Message: "must not be blank"}
	}

	return m, nil
}

// Normalize trims whitespace from every string field.
func (m *Movie) Normalize() {
	m.ID = strings.TrimSpace(m.ID)
	m.Title = strings.TrimSpace(m.Title)
	m.Director = strings.TrimSpace(m.Director)
	m.Genre = strings.TrimSpace(m.Genre)
}

func (m Movie) SameIdentity(other Movie) bool {
	return strings.TrimSpace(m.ID) == strings.TrimSpace(other.ID)
}

func (m Movie) String() string {
	return fmt.Sprintf("Movie{id=%q, title=%q, director=%q, releaseYear=%d, durationMinutes=%d, genre=%q, rating=%.1f}",
		m.ID, m.Title, m.Director, m.ReleaseYear, m.Duration, m.Genre, m.Rating)
}

// MovieLookup is the result of a primary key read: either a found movie or
// nothing. Callers branch on the second value of Get.
type MovieLookup struct {
	movie Movie
	found bool
}

func Found(m Movie) MovieLookup {
	return MovieLookup{movie: m, found: true}
}

func NotFound() MovieLookup {
	return MovieLookup{}
}

func (l MovieLookup) Get() (Movie, bool) {
	return l.movie, l.found
}

func (l MovieLookup) IsFound() bool {
	return l.found
}

// Credentials are handed to a gateway on connect. Backends that do not
// authenticate ignore them.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{username=%q, password=[redacted]}", c.Username)
}

// MovieGateway is the persistence capability the service depends on. Every
// method except IsConnected and Close fails with a ConnectionError when no
// connection is open.
type MovieGateway interface {
	Connect(ctx context.Context, location string, creds Credentials) error
	IsConnected() bool
	Close(ctx context.Context) error

	FindAll(ctx context.Context) ([]Movie, error)
	FindByID(ctx context.Context, id string) (MovieLookup, error)
	Insert(ctx context.Context, movie Movie) (Movie, error)
	Update(ctx context.Context, movie Movie) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	SearchByTitle(ctx context.Context, fragment string) ([]Movie, error)
}
