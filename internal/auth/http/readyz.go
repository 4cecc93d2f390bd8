package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and the status of the client store and signing keys
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Store:  "ok",
			Signer: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := healthReport(overallStatus, startTime, version)
		response.Checks = checks
		httpx.WriteJSON(w, statusCode, response)
	}
}
