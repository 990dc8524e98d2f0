package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Check reports whether one backing service is usable.
type Check func(ctx context.Context) error

type Handler struct {
	log    *zap.Logger
	checks map[string]Check
}

// NewHandler builds the health handler. With no checks it is a plain liveness probe.
func NewHandler(log *zap.Logger, checks map[string]Check) *Handler {
	return &Handler{log: log, checks: checks}
}

type healthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health answers 503 with the failing dependency names when any check fails.
func (h *Handler) Health(c echo.Context) error {
	resp := healthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339Nano)}
	code := http.StatusOK
	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)
		resp.Checks = make(map[string]string, len(names))
		for _, name := range names {
			if err := h.checks[name](ctx); err != nil {
				h.log.Warn("health check failed", zap.String("check", name), zap.Error(err))
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	return c.JSON(code, resp)
}
