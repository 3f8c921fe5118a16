package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/movie-catalog/internal/config"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/metinatakli/movie-catalog/internal/service"
	"github.com/metinatakli/movie-catalog/internal/validator"
)

func newTestApplication(t *testing.T, gateway domain.MovieGateway, opts ...func(*Application)) *Application {
	t.Helper()

	if gateway == nil {
		gateway = &mocks.MockMovieGateway{}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.NewValidator()

	movies, err := service.NewMovieService(gateway, v, logger)
	if err != nil {
		t.Fatalf("NewMovieService() unexpected error: %v", err)
	}

	cfg := config.Default()
	cfg.Store.ConnectTimeout = time.Second
	cfg.Seed = false

	app := NewApp(cfg, logger, v, movies)

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader = http.NoBody

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	t.Helper()

	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func testMovie() domain.Movie {
	return domain.Movie{
		ID:          "M1",
		Title:       "The Matrix",
		Director:    "Lana Wachowski",
		ReleaseYear: 1999,
		Duration:    136,
		Genre:       "Science Fiction",
		Rating:      8.7,
	}
}
