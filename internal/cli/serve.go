package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/glmtok/internal/host"
	"github.com/born-ml/glmtok/internal/parallel"
	"github.com/born-ml/glmtok/internal/server"
)

type ServeCMD struct {
	Address         string        `env:"GLMTOK_ADDRESS" default:":8080" help:"Bind address for the API server"`
	BodyLimit       string        `env:"GLMTOK_BODY_LIMIT" default:"8M" help:"Maximum request body size"`
	Workers         int           `env:"GLMTOK_WORKERS" default:"0" help:"Batch workers, 0 uses one per CPU"`
	ShutdownTimeout time.Duration `env:"GLMTOK_SHUTDOWN_TIMEOUT" default:"10s" help:"Graceful shutdown timeout"`
	Lazy            bool          `env:"GLMTOK_LAZY" help:"Load the tokenizer on first use instead of at startup"`
}

func (r *ServeCMD) Run(ctx *Context, _ *Streams) error {
	cfg := host.DefaultConfig()
	if r.Workers > 0 {
		cfg.Parallel = parallel.Config{Enabled: r.Workers > 1, NumWorkers: r.Workers, MinBatchSize: cfg.Parallel.MinBatchSize}
	}

	shared := ctx.sharedTokenizer()
	h, err := ctx.handler(shared, cfg)
	if err != nil {
		return err
	}

	if !r.Lazy {
		// A failed load is reported by /healthz; the server still starts.
		if tok, err := shared.Get(); err == nil {
			log.Info().Str("tokenizer", ctx.Tokenizer).Int("vocab", tok.VocabSize()).Msg("tokenizer ready")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := server.API(h, server.Config{
		BodyLimit:       r.BodyLimit,
		Registry:        reg,
		ShutdownTimeout: r.ShutdownTimeout,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(sigCtx, e, r.Address, r.ShutdownTimeout)
}
