package repository

import (
	"strings"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

const movieColumns = `movie_id, title, director, release_year, duration_minutes, genre, rating`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern that declares
// backslash as its escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &domain.ValidationError{Field: "id", Message: "must not be blank"}
	}

	return id, nil
}

func requireFragment(fragment string) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", &domain.ValidationError{Field: "fragment", Message: "must not be blank"}
	}

	return fragment, nil
}

func notConnected(op string) error {
	return &domain.ConnectionError{Op: op, Err: domain.ErrNotConnected}
}
