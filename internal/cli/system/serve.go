package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/julianstephens/tachoplan/internal/cli"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/observability"
	"github.com/julianstephens/tachoplan/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." env:"TACHOPLAN_ADDR" default:":8080"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Planner()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewPlanCollector(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(c.Addr, server.NewRouter(p, metrics))
	logger.Info("Starting HTTP server", "addr", srv.Addr)
	ctx.Printf("Serving trip plans on %s (Ctrl+C to stop)\n", srv.Addr)

	return server.ListenAndServe(sigCtx, srv)
}
