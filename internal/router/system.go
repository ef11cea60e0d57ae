package router

import (
	"github.com/deppfellow/todo-backend/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes wires the endpoints outside the versioned API.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
