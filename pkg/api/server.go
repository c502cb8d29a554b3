package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// requestIDKey is a context key mirroring chi's own request-id
// middleware, but stamped with a ksuid so request ids sort by
// creation time.
type requestIDKey struct{}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ksuid.New().String()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewRouter builds the full chi router for a membtree server.
func NewRouter(store *Store, log zerolog.Logger) http.Handler {
	metrics := NewMetrics()
	server := NewServer(store, metrics, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
	r.Get("/health", metrics.Instrument("/health", server.handleHealth))

	r.Route("/v1", func(r chi.Router) {
		r.Put("/kv/{key}", metrics.Instrument("/v1/kv/{key}", server.handlePut))
		r.Get("/kv/{key}", metrics.Instrument("/v1/kv/{key}", server.handleGet))
		r.Delete("/kv/{key}", metrics.Instrument("/v1/kv/{key}", server.handleDelete))
		r.Get("/kv", metrics.Instrument("/v1/kv", server.handleRange))
		r.Post("/split-off", metrics.Instrument("/v1/split-off", server.handleSplitOff))
		r.Get("/stats", metrics.Instrument("/v1/stats", server.handleStats))
	})

	return r
}

// RunExpirySweep periodically drops expired items from store until ctx
// is cancelled.
func RunExpirySweep(ctx context.Context, store *Store, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := store.Len()
			store.Expire()
			after := store.Len()
			if after != before {
				log.Info().Int("expired", before-after).Msg("expiry sweep")
			}
		}
	}
}

// RunCapacitySweep periodically evicts the smallest keys until store
// holds at most maxCapacity items, until ctx is cancelled. maxCapacity
// <= 0 disables the sweep entirely.
func RunCapacitySweep(ctx context.Context, store *Store, interval time.Duration, maxCapacity int, log zerolog.Logger) {
	if interval <= 0 || maxCapacity <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := store.EnforceCapacity(maxCapacity); evicted > 0 {
				log.Info().Int("evicted", evicted).Int("max_capacity", maxCapacity).Msg("capacity sweep")
			}
		}
	}
}

// Addr formats a bind/port pair as a net.Listen address.
func Addr(bind string, port int) string {
	return fmt.Sprintf("%s:%d", bind, port)
}
