package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rtapi/gateway/pkg/httpx"
)

// HealthCheckHandler returns the health endpoint handler. With no probes it
// is a liveness check answering {"status":"ok"}. With probes it is a
// readiness check: all probes must pass, otherwise it answers 500 with
// {"status":"unavailable"} and logs the failing probe.
func HealthCheckHandler(log *slog.Logger, probes ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, probe := range probes {
			if err := probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness probe failed", slog.Any("error", err))
				httpx.JSON(w, http.StatusInternalServerError, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
