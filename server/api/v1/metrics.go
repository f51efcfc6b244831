package v1

import (
	"strconv"
	"time"

	"github.com/erikmagkekse/nas-console/console"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// outcomeKey carries the slot result of a run route to the metrics middleware.
const outcomeKey = "slot_outcome"

var (
	consoleRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nas_console",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Console HTTP requests by route, status code and slot outcome, none for routes that run nothing.",
	}, []string{"method", "path", "code", "outcome"})

	consoleRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nas_console",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Console HTTP latency, which includes the backend call for run routes.",
		Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})
)

func init() {
	prometheus.MustRegister(consoleRequestsTotal, consoleRequestDuration)
}

// outcomeLabel names a finished run; stale results never reached the view.
func outcomeLabel(out console.Outcome) string {
	if out.Stale {
		return "stale"
	}
	return string(out.State)
}

func recordOutcome(c *echo.Context, out console.Outcome) {
	c.Set(outcomeKey, outcomeLabel(out))
}

func MetricsHandler() echo.HandlerFunc {
	h := promhttp.Handler()
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			route := c.RouteInfo().Path
			status := 0
			if resp, ok := c.Response().(*echo.Response); ok {
				status = resp.Status
			}
			outcome, _ := c.Get(outcomeKey).(string)
			if outcome == "" {
				outcome = "none"
			}

			consoleRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status), outcome).Inc()
			consoleRequestDuration.WithLabelValues(c.Request().Method, route).Observe(elapsed.Seconds())

			log.Debug().
				Str("route", route).
				Str("outcome", outcome).
				Int("status", status).
				Str("client", c.RealIP()).
				Dur("duration", elapsed).
				Msg("console request")

			return err
		}
	}
}
