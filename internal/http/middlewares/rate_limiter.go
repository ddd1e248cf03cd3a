package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter caps requests per client IP within a fixed window. Courier
// apps poll status and tasks on user action only, so the limit is generous.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	type counter struct {
		count   int
		started time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*counter)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			key := c.RealIP()

			mu.Lock()
			w, ok := clients[key]
			if !ok || now.Sub(w.started) > window {
				w = &counter{started: now}
				clients[key] = w
			}

			if w.count >= limit {
				mu.Unlock()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			w.count++
			mu.Unlock()

			return next(c)
		}
	}
}
