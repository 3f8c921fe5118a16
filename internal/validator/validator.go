package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	ErrRequired    = "is required"
	ErrNotBlank    = "must not be blank"
	ErrMinValue    = "must be at least %s"
	ErrMaxValue    = "must be at most %s"
	ErrMaxLength   = "must be at most %s characters long"
	ErrInvalidType = "is invalid"
)

var (
	yearRule     = fmt.Sprintf("gte=%d,lte=%d", domain.MinReleaseYear, domain.MaxReleaseYear)
	durationRule = fmt.Sprintf("gte=%d,lte=%d", domain.MinDuration, domain.MaxDuration)
	ratingRule   = fmt.Sprintf("gte=%.1f,lte=%.1f", domain.MinRating, domain.MaxRating)
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("notblank", validateNotBlank)

	// report request struct fields by their JSON names
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validator
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

type rule struct {
	field string
	value any
	tag   string
}

// ValidateMovie checks m field by field in a fixed order and returns a
// *domain.ValidationError for the first rule that fails.
func ValidateMovie(v *validator.Validate, m domain.Movie) error {
	rules := []rule{
		{"id", m.ID, "notblank"},
		{"title", m.Title, "notblank"},
		{"director", m.Director, "notblank"},
		{"genre", m.Genre, "notblank"},
		{"releaseYear", m.ReleaseYear, yearRule},
		{"durationMinutes", m.Duration, durationRule},
		{"rating", m.Rating, ratingRule},
	}

	for _, r := range rules {
		err := v.Var(r.value, r.tag)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &domain.ValidationError{Field: r.field, Message: ValidationMessage(fieldErrs[0])}
		}

		return &domain.ValidationError{Field: r.field, Message: ErrInvalidType}
	}

	return nil
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "notblank":
		return ErrNotBlank
	case "gte", "min":
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "lte", "max":
		if err.Kind().String() == "string" {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	default:
		return ErrInvalidType
	}
}
