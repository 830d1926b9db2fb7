// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the WeFund service.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"time"

	"wefund/internal/api/handler/v1handler"
	"wefund/internal/config"
	"wefund/pkg/controller"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// RateLimit is the steady per-client request rate, in requests per second.
	RateLimit float64
	// RateBurst is the per-client burst size on top of RateLimit.
	RateBurst int
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		RateLimit:         cfg.HTTP.RateLimit,
		RateBurst:         cfg.HTTP.RateBurst,
	}
}

type Deps struct {
	v1handler.Deps

	// Ping reports whether the database is reachable. Used by the health
	// endpoint; nil skips the check.
	Ping func(ctx context.Context) error
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes backed by the handler package
// - pprof endpoints for profiling
// It also wraps the mux with rate limiting, CORS, metrics and logging
// middlewares and applies a request timeout. The websocket endpoint bypasses
// the timeout handler, which would otherwise break the upgraded connection.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// v1 specs file
	mux.HandleFunc("/specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/docs", http.RedirectHandler("/v1/docs/", http.StatusMovedPermanently))
	mux.Handle("/v1/docs/", v5emb.New(
		"WeFund",
		"/specs/v1.yaml",
		"/v1/docs/",
	))
	// v1 api
	v1 := v1handler.New(deps.Deps)
	mux.Handle("/v1/", http.StripPrefix("/v1", v1.Routes()))

	// pprof
	mux.Handle("/debug/pprof/", controller.PprofMux())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			if err := deps.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})

				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)

			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": "wefund",
			"version": Version,
			"docs":    "/v1/docs/",
		})
	})

	var handler http.Handler = http.TimeoutHandler(mux, opts.RequestTimeout, `{"error":"request timed out"}`)

	// websockets hold the connection open far past any request timeout
	handler = withWebsocketBypass(mux, handler)

	// rate limit
	if opts.RateLimit > 0 {
		handler = controller.NewRateLimiter(opts.RateLimit, opts.RateBurst).Middleware(handler)
	}

	// cors
	handler = controller.WithCORS(handler)

	// metrics
	handler = controller.WithMetrics(handler)

	// logger
	handler = controller.WithLogger(handler)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}

// withWebsocketBypass routes upgrade requests straight to the mux, skipping
// http.TimeoutHandler whose response writer cannot be hijacked.
func withWebsocketBypass(direct, wrapped http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			direct.ServeHTTP(w, r)

			return
		}

		wrapped.ServeHTTP(w, r)
	})
}
