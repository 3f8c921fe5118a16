package app

import (
	"net/http"
	"strings"
)

type ConnectRequest struct {
	Location string `json:"location" validate:"omitempty,max=2048"`
	Username string `json:"username" validate:"max=128"`
	Password string `json:"password" validate:"max=128"`
}

type ConnectionResponse struct {
	Connected bool   `json:"connected"`
	Driver    string `json:"driver"`
}

func (app *Application) GetConnection(w http.ResponseWriter, r *http.Request) {
	resp := ConnectionResponse{
		Connected: app.movies.IsConnected(),
		Driver:    app.config.Store.Driver,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// Connect opens a store connection, replacing any open one, and seeds an
// empty catalog when seeding is enabled. An omitted location falls back to
// the configured one.
func (app *Application) Connect(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input ConnectRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = app.config.Store.Location
	}

	err = app.connectStore(r.Context(), location, strings.TrimSpace(input.Username), input.Password)
	if err != nil {
		logger.Warn("connect request failed", "error", err)
		app.movieErrorResponse(w, r, err)
		return
	}

	if app.config.Seed {
		err = app.seed(r.Context())
		if err != nil {
			logger.Error("failed to seed catalog", "error", err)
		}
	}

	resp := ConnectionResponse{
		Connected: true,
		Driver:    app.config.Store.Driver,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Disconnect(w http.ResponseWriter, r *http.Request) {
	err := app.movies.Close(r.Context())
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	resp := ConnectionResponse{
		Connected: false,
		Driver:    app.config.Store.Driver,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
