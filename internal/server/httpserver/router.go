package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// KeyStore is the view of the key-value store the admin routes need.
type KeyStore interface {
	Len() int
	Keys() []string
	TTL(key string) (time.Duration, bool)
	Delete(key string) bool
}

type keyInfo struct {
	Key string `json:"key"`
	// TTLMillis is -1 for keys without expiry.
	TTLMillis int64 `json:"ttl_ms"`
}

// RouterConfig holds the dependencies of the admin routes.
type RouterConfig struct {
	Metrics *metric.Registry
	Store   KeyStore
	Logger  *slog.Logger

	// StartedAt is reported by /healthz as uptime.
	StartedAt time.Time
}

// NewRouter builds the admin handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	started := cfg.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{
			"status":         "ok",
			"uptime_seconds": int64(time.Since(started).Seconds()),
		}
		if cfg.Store != nil {
			body["keys"] = cfg.Store.Len()
		}
		writeJSON(w, http.StatusOK, body)
	})

	if cfg.Store != nil {
		mux.HandleFunc("GET /keys", func(w http.ResponseWriter, _ *http.Request) {
			keys := cfg.Store.Keys()
			out := make([]keyInfo, 0, len(keys))
			for _, k := range keys {
				ttl, ok := cfg.Store.TTL(k)
				if !ok {
					// expired between Keys and TTL
					continue
				}
				ms := int64(-1)
				if ttl >= 0 {
					ms = ttl.Milliseconds()
				}
				out = append(out, keyInfo{Key: k, TTLMillis: ms})
			}
			writeJSON(w, http.StatusOK, map[string]any{"keys": out})
		})

		mux.HandleFunc("DELETE /keys/{key}", func(w http.ResponseWriter, r *http.Request) {
			key := r.PathValue("key")
			if !cfg.Store.Delete(key) {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": "no such key", "key": key})
				return
			}
			log.Info("key deleted via admin api",
				"key", key,
				"request_id", logger.RequestIDFromContext(r.Context()),
			)
			writeJSON(w, http.StatusOK, map[string]any{"deleted": key})
		})
	}

	mux.HandleFunc("GET /version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	return Chain(mux,
		Recover(log),
		RequestID(),
		AccessLog(log),
	)
}
