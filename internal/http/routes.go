package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "courier-sync.com/courier-sync/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, apiToken string, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))
	e.Use(middleware.BearerAuth(apiToken))

	e.GET("/couriers/:id/status", h.GetStatus)
	e.PUT("/couriers/:id/status", h.UpdateStatus)
	e.POST("/couriers/:id/status/reset", h.ResetStatus)
	e.GET("/couriers/:id/tasks", h.ListTasks)

	e.POST("/tasks", h.CreateTask)
	e.PUT("/tasks/:id/status", h.UpdateTaskStatus)
}
