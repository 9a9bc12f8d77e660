package health

import (
	"encoding/json"
	"net/http"
	"strings"

	corehealth "github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
)

type healthHandler struct {
	readiness corehealth.ReadinessChecker
}

func newHealthHandler(r corehealth.ReadinessChecker) *healthHandler {
	return &healthHandler{readiness: r}
}

// IsReady answers "ready"/"not ready", or the component breakdown as JSON
// with ?format=json or Accept: application/json.
func (h *healthHandler) IsReady(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		status := h.readiness.GetStatus()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode(status.Ready))
		_ = json.NewEncoder(w).Encode(status)
		return
	}

	ready := h.readiness.IsReady()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode(ready))
	if ready {
		_, _ = w.Write([]byte("ready"))
	} else {
		_, _ = w.Write([]byte("not ready"))
	}
}

func (h *healthHandler) IsLive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("alive"))
}

func statusCode(ready bool) int {
	if ready {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
