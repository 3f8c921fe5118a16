package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func truncateMovies(t testing.TB, db *pgx.Conn) {
	t.Helper()

	_, err := db.Exec(context.Background(), "TRUNCATE TABLE movies")
	require.NoError(t, err)
}

func insertTestMovie(t testing.TB, db *pgx.Conn, m domain.Movie) {
	t.Helper()

	query := `
		INSERT INTO movies (movie_id, title, director, release_year, duration_minutes, genre, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := db.Exec(context.Background(), query, m.ID, m.Title, m.Director, m.ReleaseYear, m.Duration, m.Genre, m.Rating)
	require.NoError(t, err)
}

func countMovies(t testing.TB, db *pgx.Conn) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM movies").Scan(&count)
	require.NoError(t, err)

	return count
}

func getMovieRow(t testing.TB, db *pgx.Conn, id string) domain.Movie {
	t.Helper()

	var m domain.Movie
	err := db.QueryRow(context.Background(), `
		SELECT movie_id, title, director, release_year, duration_minutes, genre, rating
		FROM movies WHERE movie_id = $1`, id).
		Scan(&m.ID, &m.Title, &m.Director, &m.ReleaseYear, &m.Duration, &m.Genre, &m.Rating)
	require.NoError(t, err)

	return m
}
