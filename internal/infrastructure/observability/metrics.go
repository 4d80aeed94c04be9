package observability

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bartertrade_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bartertrade_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	streamConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bartertrade_stream_connections",
			Help: "Number of live event-stream connections.",
		},
		[]string{"transport"},
	)
	eventsDeliveredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bartertrade_events_delivered_total",
			Help: "Events enqueued onto subscriber connections.",
		},
		[]string{"event"},
	)
	eventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bartertrade_events_dropped_total",
			Help: "Events dropped because no connection or queue was available.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		streamConnections,
		eventsDeliveredTotal,
		eventsDroppedTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func StreamConnected(transport string) {
	streamConnections.WithLabelValues(transport).Inc()
}

func StreamDisconnected(transport string) {
	streamConnections.WithLabelValues(transport).Dec()
}

func EventDelivered(event string) {
	eventsDeliveredTotal.WithLabelValues(event).Inc()
}

func EventDropped(reason string) {
	eventsDroppedTotal.WithLabelValues(reason).Inc()
}
