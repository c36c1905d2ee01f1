// Package server exposes the host handler over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/glmtok/internal/host"
)

// Config configures the HTTP API.
type Config struct {
	// BodyLimit caps request bodies, e.g. "8M". Empty disables the limit.
	BodyLimit string

	// Registry receives the server metrics. Nil creates a private registry.
	Registry *prometheus.Registry

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the serve defaults.
func DefaultConfig() Config {
	return Config{
		BodyLimit:       "8M",
		ShutdownTimeout: 10 * time.Second,
	}
}

// APIError is the error body of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse wraps an APIError.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// API builds the echo instance serving h.
func API(h *host.Handler, cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// Custom logger middleware using zerolog
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			err := next(c)
			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Msg("HTTP request")
			return err
		}
	})

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := NewMetrics(reg)
	e.Use(metrics.Middleware)
	e.Use(middleware.Recover())

	// After the logger and metrics, so rejected bodies are still observed.
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	r := &routes{h: h, metrics: metrics}
	e.GET("/healthz", r.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	v1 := e.Group("/v1")
	v1.GET("/tokenizer", r.info)
	v1.POST("/tokenize", r.tokenize)
	v1.POST("/tokenize/batch", r.tokenizeBatch)
	v1.POST("/detokenize", r.detokenize)
	v1.POST("/chat/template", r.chatTemplate)
	v1.POST("/chat/template/batch", r.chatTemplateBatch)

	e.Server.RegisterOnShutdown(func() {
		log.Info().Msg("glmtok API server shutting down")
	})
	return e
}

// Run serves e on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("starting API server")
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	apiErr := &APIError{Message: err.Error(), Code: host.CodeInternal}

	var (
		he   *echo.HTTPError
		herr *host.Error
	)
	switch {
	case errors.As(err, &he):
		status = he.Code
		apiErr.Message = fmt.Sprint(he.Message)
		apiErr.Code = statusCode(he.Code)
	case errors.As(err, &herr):
		apiErr.Code = herr.Code()
		switch {
		case host.IsClientError(herr):
			status = http.StatusBadRequest
		case apiErr.Code == host.CodeUnavailable:
			status = http.StatusServiceUnavailable
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: apiErr})
}

func statusCode(status int) string {
	if status == http.StatusBadRequest {
		return host.CodeInvalidRequest
	}
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}
