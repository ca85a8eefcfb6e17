// Package observability holds the Prometheus metrics recorded during a scrape.
package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	Fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "fetches_total", Help: "Page fetch attempts by mode and outcome."},
		[]string{"mode", "outcome"}, // outcome: ok|error|unavailable
	)
	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "fetch_duration_seconds",
			Help:    "Page fetch duration seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"mode"},
	)
	Pages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "pages_total", Help: "Pages processed per source."},
		[]string{"source"},
	)
	Records = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "records_total", Help: "Extracted review records by outcome."},
		[]string{"source", "outcome"}, // outcome: accepted|out_of_range|undated|invalid
	)
	Stops = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "stops_total", Help: "Scrape terminations by reason."},
		[]string{"source", "reason"},
	)
)

// InitRegistry registers every collector on a fresh registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(Fetches, FetchLatency, Pages, Records, Stops)
	return reg
}

// Serve exposes reg on addr under /metrics until the returned server is shut
// down. An empty addr disables the endpoint and returns nil.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return srv
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Shutdown stops a server returned by Serve; nil is a no-op.
func Shutdown(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func ObserveFetch(mode, outcome string, dur time.Duration) {
	Fetches.WithLabelValues(mode, outcome).Inc()
	FetchLatency.WithLabelValues(mode).Observe(dur.Seconds())
}

func ObservePage(source string) {
	Pages.WithLabelValues(source).Inc()
}

func ObserveRecord(source, outcome string) {
	Records.WithLabelValues(source, outcome).Inc()
}

func ObserveStop(source, reason string) {
	Stops.WithLabelValues(source, reason).Inc()
}
