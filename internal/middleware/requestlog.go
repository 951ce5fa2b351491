package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// requestIDKey is the context key the request id is stored under.
const requestIDKey = "request_id"

// RequestID makes sure every request carries an id: an incoming
// X-Request-ID header is trusted, otherwise a fresh UUID is minted.
// The id is echoed back to the client and picked up by the request
// logger.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.New().String()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestLogger emits one structured line per request.  Handler errors
// are rendered here through Echo's error handler before logging so the
// recorded status matches what the client saw.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			ev := log.Info()
			if err != nil {
				ev = log.Error().Err(err)
			}
			reqID, _ := c.Get(requestIDKey).(string)
			ev.Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("remote_ip", c.RealIP()).
				Int("status", c.Response().Status).
				Dur("elapsed", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
