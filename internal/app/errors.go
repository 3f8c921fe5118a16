package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/internal/domain"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) notConnectedResponse(w http.ResponseWriter, r *http.Request) {
	message := "No open store connection, connect first"
	app.errorResponse(w, r, http.StatusServiceUnavailable, message)
}

// failedValidationResponse accepts either the validator's field errors from
// a request struct or a *domain.ValidationError raised by the service.
func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := ValidationErrorResponse{
		Message: "One or more fields are invalid",
	}

	var (
		fieldErrs validator.ValidationErrors
		domainErr *domain.ValidationError
	)

	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			resp.ValidationErrors = append(resp.ValidationErrors, ValidationError{
				Field: fe.Field(),
				Issue: appvalidator.ValidationMessage(fe),
			})
		}
	case errors.As(err, &domainErr):
		resp.Message = domain.DisplayMessage(domainErr)
		resp.ValidationErrors = []ValidationError{{Field: domainErr.Field, Issue: domainErr.Message}}
	default:
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// movieErrorResponse maps an error from the movie service onto a status code.
// Store errors are shown through domain.DisplayMessage so raw driver text is
// bounded in size.
func (app *Application) movieErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := app.contextGetLogger(r)

	switch {
	case errors.Is(err, domain.ErrValidation):
		app.failedValidationResponse(w, r, err)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.errorResponse(w, r, http.StatusNotFound, domain.DisplayMessage(err))
	case errors.Is(err, domain.ErrConstraint):
		logger.Warn("store constraint violated", "error", err)
		app.errorResponse(w, r, http.StatusConflict, domain.DisplayMessage(err))
	case errors.Is(err, domain.ErrConnection):
		logger.Error("store unavailable", "error", err)
		app.errorResponse(w, r, http.StatusServiceUnavailable, domain.DisplayMessage(err))
	default:
		app.serverErrorResponse(w, r, err)
	}
}
