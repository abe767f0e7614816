package server

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abelbrown/newsfeed/internal/otel"
)

// RequestLogger logs each request to logger and records it as telemetry.
func RequestLogger(logger *log.Logger, events *otel.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogURI:      true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := otel.Event{
				Level: otel.LevelInfo,
				Kind:  otel.KindHTTPRequest,
				Comp:  "server",
				Dur:   v.Latency,
				Msg:   v.Method + " " + v.URI,
				Extra: map[string]any{"status": v.Status},
			}
			if v.Error == nil {
				logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			} else {
				logger.Error("request failed", "method", v.Method, "uri", v.URI, "status", v.Status, "err", v.Error)
				ev.Level = otel.LevelError
				ev.Kind = otel.KindHTTPError
				ev.Err = v.Error.Error()
			}
			events.Emit(ev)
			return nil
		},
	})
}
