package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"shop-service/prometheus"
)

// MetricsMiddleware records request count and latency per route pattern
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(c.Request().Method, path, strconv.Itoa(status), time.Since(start).Seconds())
		return err
	}
}
