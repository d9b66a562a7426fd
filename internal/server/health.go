package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
)

type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the reachability of the employee API and of the
// optional audit database.
type HealthChecker struct {
	db         DBPinger
	apiHost    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewHealthChecker creates a health handler. db may be nil when no audit
// database is configured.
func NewHealthChecker(db DBPinger, apiHost string, log *slog.Logger) *HealthChecker {
	clientTO := 5
	return &HealthChecker{
		db:         db,
		apiHost:    apiHost,
		httpClient: &http.Client{Timeout: time.Duration(clientTO) * time.Second},
		log:        log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	var err error
	status := make(map[string]string)
	overallStatus := http.StatusOK

	switch {
	case h.db == nil:
		status["database"] = "disabled"
	case h.db.Ping(req.Context()) != nil:
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: DB ping")
	default:
		status["database"] = "ok"
	}

	resp, err := h.headAPI(req.Context())
	switch {
	case err != nil:
		status["api_host"] = "unreachable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(
			req.Context(),
			"Health check failed: API host unreachable",
			"host",
			h.apiHost,
			sl.Err(err),
		)
	case resp.StatusCode >= http.StatusBadRequest:
		status["api_host"] = "degraded"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(
			req.Context(),
			"Health check failed: API host returned error status",
			"host",
			h.apiHost,
			"status_code",
			resp.StatusCode,
		)
	default:
		status["api_host"] = "ok"
	}
	if resp != nil {
		if err = resp.Body.Close(); err != nil {
			h.log.WarnContext(req.Context(), "Failed to close response body", sl.Err(err))
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err = json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}

func (h *HealthChecker) headAPI(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.apiHost, nil)
	if err != nil {
		return nil, err
	}

	return h.httpClient.Do(req)
}
