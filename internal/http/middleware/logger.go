package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"studentapi/internal/logger"
)

// Logger is a middleware that logs each HTTP request as one JSON line.
// Fields:
// - request_id (set by the RequestID middleware, which must run first)
// - trace_id (when the request carries a sampled span)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
//
// A request-scoped child logger is attached to the user context so handlers can
// retrieve it with zerolog.Ctx.
func Logger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqLog := base.With().Str("request_id", GetRequestID(c)).Logger()
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			reqLog = reqLog.With().Str("trace_id", sc.TraceID().String()).Logger()
		}
		c.SetUserContext(reqLog.WithContext(c.UserContext()))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Send()

		return err
	}
}

// LoggerWithWriter is Logger writing JSON to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.New(w, "prod", loc))
}
