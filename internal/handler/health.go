package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/todo-backend/internal/middleware"
	"github.com/deppfellow/todo-backend/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports 200 when every enabled check passes and 503
// otherwise. The database check pings the pool; it reports "disabled"
// when the todo store runs in memory.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"session":     h.server.Config.Database.Session,
		"checks":      checks,
	}

	obs := h.server.Config.Observability
	isHealthy := true

	if obs.HealthCheckEnabled("database") {
		switch {
		case h.server.DB == nil:
			checks["database"] = map[string]interface{}{"status": "disabled"}
		default:
			ctx, cancel := context.WithTimeout(c.Request().Context(), obs.HealthChecks.Timeout)
			defer cancel()

			dbStart := time.Now()
			if err := h.server.DB.Pool.Ping(ctx); err != nil {
				isHealthy = false
				checks["database"] = map[string]interface{}{
					"status":        "unhealthy",
					"response_time": time.Since(dbStart).String(),
					"error":         err.Error(),
				}

				logger.Error().
					Err(err).
					Dur("response_time", time.Since(dbStart)).
					Msg("database health check failed")

				h.recordFailure("database", map[string]interface{}{
					"response_time_ms": time.Since(dbStart).Milliseconds(),
					"error_message":    err.Error(),
				})
			} else {
				checks["database"] = map[string]interface{}{
					"status":        "healthy",
					"response_time": time.Since(dbStart).String(),
				}
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, attrs map[string]interface{}) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	attrs["check_type"] = check
	attrs["operation"] = "health_check"
	attrs["error_type"] = check + "_unhealthy"
	app.RecordCustomEvent("HealthCheckError", attrs)
}
