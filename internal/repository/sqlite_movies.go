package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	sqliteDriverName  = "sqlite"
	sqlitePingTimeout = time.Second
)

type movieRow struct {
	ID          string  `db:"movie_id"`
	Title       string  `db:"title"`
	Director    string  `db:"director"`
	ReleaseYear int     `db:"release_year"`
	Duration    int     `db:"duration_minutes"`
	Genre       string  `db:"genre"`
	Rating      float64 `db:"rating"`
}

func (r movieRow) toDomain() domain.Movie {
	movie := domain.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Director:    r.Director,
		ReleaseYear: r.ReleaseYear,
		Duration:    r.Duration,
		Genre:       r.Genre,
		Rating:      r.Rating,
	}
	movie.Normalize()

	return movie
}

func toDomainMovies(rows []movieRow) []domain.Movie {
	movies := make([]domain.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toDomain()
	}

	return movies
}

// SQLiteMovieRepository stores movies in a SQLite database file. The
// location is the file path or DSN understood by modernc.org/sqlite;
// credentials are ignored.
type SQLiteMovieRepository struct {
	mu     sync.Mutex
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSQLiteMovieRepository(logger *slog.Logger) *SQLiteMovieRepository {
	return &SQLiteMovieRepository{
		logger: logger,
	}
}

func (s *SQLiteMovieRepository) Connect(ctx context.Context, location string, _ domain.Credentials) error {
	if strings.TrimSpace(location) == "" {
		return &domain.ConnectionError{Op: "connect", Err: errors.New("location cannot be empty")}
	}

	db, err := sqlx.Open(sqliteDriverName, location)
	if err != nil {
		return &domain.ConnectionError{Op: "connect", Err: err}
	}

	// one connection; an in-memory database lives only as long as it does
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	err = db.PingContext(ctx)
	if err == nil {
		_, err = db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`)
	}
	if err != nil {
		db.Close()
		s.logger.Error("failed to connect", "driver", sqliteDriverName, "location", location, "error", err)
		return &domain.ConnectionError{Op: "connect", Err: err}
	}

	s.mu.Lock()
	previous := s.db
	s.db = db
	s.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	s.logger.Info("connected", "driver", sqliteDriverName, "location", location)

	return nil
}

// IsConnected pings the handle, so a database closed outside Close is
// reported as disconnected.
func (s *SQLiteMovieRepository) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlitePingTimeout)
	defer cancel()

	return s.db.PingContext(ctx) == nil
}

func (s *SQLiteMovieRepository) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	db := s.db
	s.db = nil

	err := db.Close()
	if err != nil {
		return &domain.ConnectionError{Op: "close", Err: err}
	}

	s.logger.Info("connection closed", "driver", sqliteDriverName)

	return nil
}

// requireDB must be called with s.mu held.
func (s *SQLiteMovieRepository) requireDB(op string) (*sqlx.DB, error) {
	if s.db == nil {
		return nil, notConnected(op)
	}

	return s.db, nil
}

func (s *SQLiteMovieRepository) FindAll(ctx context.Context) ([]domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.requireDB("find all movies")
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + movieColumns + `
		FROM movies
		ORDER BY title ASC, movie_id ASC`

	var rows []movieRow

	err = db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, s.storeError("find all movies", err)
	}

	return toDomainMovies(rows), nil
}

func (s *SQLiteMovieRepository) FindByID(ctx context.Context, id string) (domain.MovieLookup, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.NotFound(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.requireDB("find movie")
	if err != nil {
		return domain.NotFound(), err
	}

	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE movie_id = ?`

	var row movieRow

	err = db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(), nil
		}

		return domain.NotFound(), s.storeError("find movie", err)
	}

	return domain.Found(row.toDomain()), nil
}

func (s *SQLiteMovieRepository) Insert(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.requireDB("insert movie")
	if err != nil {
		return domain.Movie{}, err
	}

	query := `INSERT INTO movies (` + movieColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx,
		query,
		movie.ID,
		movie.Title,
		movie.Director,
		movie.ReleaseYear,
		movie.Duration,
		movie.Genre,
		movie.Rating)

	if err != nil {
		return domain.Movie{}, s.storeError("insert movie", err)
	}

	return movie, nil
}

func (s *SQLiteMovieRepository) Update(ctx context.Context, movie domain.Movie) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.requireDB("update movie")
	if err != nil {
		return false, err
	}

	query := `UPDATE movies
		SET title = ?, director = ?, release_year = ?, duration_minutes = ?, genre = ?, rating = ?
		WHERE movie_id = ?`

	res, err := db.ExecContext(ctx,
		query,
		movie.Title,
		movie.Director,
		movie.ReleaseYear,
		movie.Duration,
		movie.Genre,
		movie.Rating,
		movie.ID)

	if err != nil {
		return false, s.storeError("update movie", err)
	}

	return s.affected("update movie", res)
}

func (s *SQLiteMovieRepository) Delete(ctx context.Context, id string) (bool, error) {
	id, err := requireID(id)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.requireDB("delete movie")
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = ?`, id)
	if err != nil {
		return false, s.storeError("delete movie", err)
	}

	return s.affected("delete movie", res)
}

func (s *SQLiteMovieRepository) SearchByTitle(ctx context.Context, fragment string) ([]domain.Movie, error) {
	fragment, err := requireFragment(fragment)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.requireDB("search movies")
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE lower(title) LIKE '%' || lower(?) || '%' ESCAPE '\'
		ORDER BY title ASC, movie_id ASC`

	var rows []movieRow

	err = db.SelectContext(ctx, &rows, query, escapeLike(fragment))
	if err != nil {
		return nil, s.storeError("search movies", err)
	}

	return toDomainMovies(rows), nil
}

func (s *SQLiteMovieRepository) affected(op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.storeError(op, err)
	}

	return n > 0, nil
}

var sqliteConstraintNames = map[int]string{
	sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY: "primary key",
	sqlite3.SQLITE_CONSTRAINT_UNIQUE:     "unique",
	sqlite3.SQLITE_CONSTRAINT_CHECK:      "check",
	sqlite3.SQLITE_CONSTRAINT_NOTNULL:    "not null",
}

func (s *SQLiteMovieRepository) storeError(op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return &domain.ConstraintError{Constraint: sqliteConstraintNames[sqliteErr.Code()], Err: err}
	}

	s.logger.Error("store operation failed", "driver", sqliteDriverName, "op", op, "error", err)

	return &domain.ConnectionError{Op: op, Err: err}
}
