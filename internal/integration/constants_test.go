package integration_test

import "github.com/metinatakli/movie-catalog/internal/domain"

const (
	// Database related constants
	dbName      = "movies"
	dbUser      = "test_user"
	dbPassword  = "test_password"
	dbImageName = "postgres:17-alpine"

	// Movie related constants
	TestMovieID          = "MAT1999"
	TestMovieTitle       = "The Matrix"
	TestMovieDirector    = "Lana Wachowski"
	TestMovieReleaseYear = 1999
	TestMovieDuration    = 136
	TestMovieGenre       = "Science Fiction"
	TestMovieRating      = 8.7
)

func defaultTestMovie() domain.Movie {
	return domain.Movie{
		ID:          TestMovieID,
		Title:       TestMovieTitle,
		Director:    TestMovieDirector,
		ReleaseYear: TestMovieReleaseYear,
		Duration:    TestMovieDuration,
		Genre:       TestMovieGenre,
		Rating:      TestMovieRating,
	}
}
