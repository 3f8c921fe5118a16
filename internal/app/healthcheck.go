package app

import (
	"net/http"
)

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Driver      string `json:"driver"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	Connected  bool       `json:"connected"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := SystemInfo{
		Version:     version,
		Environment: app.config.Env,
		Driver:      app.config.Store.Driver,
	}

	resp := HealthcheckResponse{
		Status:     status,
		Connected:  app.movies.IsConnected(),
		SystemInfo: systemInfo,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
