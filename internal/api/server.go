// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware of the openlark service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"openlark/internal/api/handler/v1handler"
	"openlark/internal/api/specs/v1specs"
	"openlark/internal/config"
	"openlark/pkg/controller"
)

//go:generate go run github.com/ogen-go/ogen/cmd/ogen --target specs/v1specs --package v1specs --clean specs/v1.yaml

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// SecHandlerOptions configures the bearer token check of the v1 endpoints.
	// The v1 API is not served when its secret is empty.
	SecHandlerOptions *v1handler.SecHandlerOptions

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
	// WebhookPath is the HTTP path receiving event callbacks.
	WebhookPath string
	// EnablePprof mounts the pprof handlers under /debug/pprof/.
	EnablePprof bool
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		WebhookPath:       cfg.HTTP.WebhookPath,
		EnablePprof:       cfg.HTTP.EnablePprof,
	}
}

type Deps struct {
	v1handler.Deps

	// Events serves the event callback endpoint, usually an *event.Dispatcher.
	// The endpoint is not served when it is nil.
	Events http.Handler
}

// NewHandler builds the routes of the server:
// - Prometheus metrics endpoint (MetricsPath), fed by the OpenTelemetry exporter
// - health check at /healthz
// - event callbacks (WebhookPath)
// - embedded OpenAPI v1 spec and Swagger UI
// - v1 deliveries API backed by the generated server, behind JWT bearer authentication
// - pprof endpoints for profiling when enabled
// The result is wrapped with the logging middleware and a request timeout.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Events != nil {
		mux.Handle(opts.WebhookPath, deps.Events)
	}

	// v1 specs file
	mux.HandleFunc("GET /specs/v1.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"openlark deliveries",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// v1 api
	if opts.SecHandlerOptions != nil && opts.SecHandlerOptions.Secret != "" && deps.Notifier != nil {
		secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
		if err != nil {
			return nil, fmt.Errorf("could not create sec handler: %w", err)
		}
		v1Srv, err := v1specs.NewServer(v1handler.New(deps.Deps),
			secHandler,
			v1specs.WithMeterProvider(mp),
			v1specs.WithErrorHandler(v1handler.ErrorHandler),
			v1specs.WithPathPrefix("/v1"))
		if err != nil {
			return nil, fmt.Errorf("could not create v1 api server: %w", err)
		}
		mux.Handle("/v1/", v1Srv)
	}

	// pprof
	if opts.EnablePprof {
		mux.Handle("/debug/pprof/", http.StripPrefix("/debug/pprof", controller.PprofMux()))
	}

	// logger
	handler := controller.WithLogger(mux)

	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, `{"code":"TIMEOUT","message":"request timed out"}`)
	}

	return handler, nil
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}

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
