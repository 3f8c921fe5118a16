package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

// PostgresMovieRepository keeps exactly one pgx connection and serializes
// every statement on it.
type PostgresMovieRepository struct {
	mu     sync.Mutex
	conn   *pgx.Conn
	logger *slog.Logger
}

func NewPostgresMovieRepository(logger *slog.Logger) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		logger: logger,
	}
}

func (p *PostgresMovieRepository) Connect(ctx context.Context, location string, creds domain.Credentials) error {
	if strings.TrimSpace(location) == "" {
		return &domain.ConnectionError{Op: "connect", Err: errors.New("location cannot be empty")}
	}

	config, err := pgx.ParseConfig(location)
	if err != nil {
		return &domain.ConnectionError{Op: "connect", Err: err}
	}

	if creds.Username != "" {
		config.User = creds.Username
	}
	if creds.Password != "" {
		config.Password = creds.Password
	}

	config.Tracer = otelpgx.NewTracer()

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		p.logger.Error("failed to connect", "driver", "postgres", "host", config.Host, "database", config.Database, "error", err)
		return &domain.ConnectionError{Op: "connect", Err: err}
	}

	p.mu.Lock()
	previous := p.conn
	p.conn = conn
	p.mu.Unlock()

	if previous != nil && !previous.IsClosed() {
		previous.Close(ctx)
	}

	p.logger.Info("connected", "driver", "postgres", "host", config.Host, "database", config.Database, "user", config.User)

	return nil
}

func (p *PostgresMovieRepository) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn != nil && !p.conn.IsClosed()
}

func (p *PostgresMovieRepository) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}

	conn := p.conn
	p.conn = nil

	if conn.IsClosed() {
		return nil
	}

	err := conn.Close(ctx)
	if err != nil {
		return &domain.ConnectionError{Op: "close", Err: err}
	}

	p.logger.Info("connection closed", "driver", "postgres")

	return nil
}

// requireConn must be called with p.mu held.
func (p *PostgresMovieRepository) requireConn(op string) (*pgx.Conn, error) {
	if p.conn == nil || p.conn.IsClosed() {
		return nil, notConnected(op)
	}

	return p.conn, nil
}

func (p *PostgresMovieRepository) FindAll(ctx context.Context) ([]domain.Movie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.requireConn("find all movies")
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + movieColumns + `
		FROM movies
		ORDER BY title ASC, movie_id ASC`

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, p.storeError("find all movies", err)
	}
	defer rows.Close()

	movies, err := scanMovies(rows)
	if err != nil {
		return nil, p.storeError("find all movies", err)
	}

	return movies, nil
}

func (p *PostgresMovieRepository) FindByID(ctx context.Context, id string) (domain.MovieLookup, error) {
	id, err := requireID(id)
	if err != nil {
		return domain.NotFound(), err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.requireConn("find movie")
	if err != nil {
		return domain.NotFound(), err
	}

	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE movie_id = $1`

	var movie domain.Movie

	err = conn.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.ReleaseYear,
		&movie.Duration,
		&movie.Genre,
		&movie.Rating,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound(), nil
		}

		return domain.NotFound(), p.storeError("find movie", err)
	}

	movie.Normalize()

	return domain.Found(movie), nil
}

func (p *PostgresMovieRepository) Insert(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.requireConn("insert movie")
	if err != nil {
		return domain.Movie{}, err
	}

	query := `INSERT INTO movies (` + movieColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = conn.Exec(ctx,
		query,
		movie.ID,
		movie.Title,
		movie.Director,
		movie.ReleaseYear,
		movie.Duration,
		movie.Genre,
		movie.Rating)

	if err != nil {
		return domain.Movie{}, p.storeError("insert movie", err)
	}

	return movie, nil
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie domain.Movie) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.requireConn("update movie")
	if err != nil {
		return false, err
	}

	query := `UPDATE movies
		SET title = $1, director = $2, release_year = $3, duration_minutes = $4, genre = $5, rating = $6
		WHERE movie_id = $7`

	tag, err := conn.Exec(ctx,
		query,
		movie.Title,
		movie.Director,
		movie.ReleaseYear,
		movie.Duration,
		movie.Genre,
		movie.Rating,
		movie.ID)

	if err != nil {
		return false, p.storeError("update movie", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id string) (bool, error) {
	id, err := requireID(id)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.requireConn("delete movie")
	if err != nil {
		return false, err
	}

	tag, err := conn.Exec(ctx, `DELETE FROM movies WHERE movie_id = $1`, id)
	if err != nil {
		return false, p.storeError("delete movie", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresMovieRepository) SearchByTitle(ctx context.Context, fragment string) ([]domain.Movie, error) {
	fragment, err := requireFragment(fragment)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.requireConn("search movies")
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE title ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY title ASC, movie_id ASC`

	rows, err := conn.Query(ctx, query, escapeLike(fragment))
	if err != nil {
		return nil, p.storeError("search movies", err)
	}
	defer rows.Close()

	movies, err := scanMovies(rows)
	if err != nil {
		return nil, p.storeError("search movies", err)
	}

	return movies, nil
}

func scanMovies(rows pgx.Rows) ([]domain.Movie, error) {
	movies := []domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.ReleaseYear,
			&movie.Duration,
			&movie.Genre,
			&movie.Rating,
		)

		if err != nil {
			return nil, err
		}

		movie.Normalize()
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

// storeError classifies a pgx failure. Key, check and not-null violations
// become ConstraintErrors; anything else is a ConnectionError.
func (p *PostgresMovieRepository) storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return &domain.ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
		}
	}

	p.logger.Error("store operation failed", "driver", "postgres", "op", op, "error", err)

	return &domain.ConnectionError{Op: op, Err: err}
}
