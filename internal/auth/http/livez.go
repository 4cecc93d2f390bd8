package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Reports that the registrar process is serving requests, with uptime and build version.
//	@Description	It never touches the client store, so it stays 200 while dependencies are down.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthReport("ok", startTime, version))
	}
}

// healthReport is the body shared by /livez and /readyz. Uptime is rounded
// to whole seconds.
func healthReport(status string, startTime time.Time, version string) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Version: version,
	}
}
