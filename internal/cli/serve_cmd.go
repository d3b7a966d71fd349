package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/autostream-assistant/server/internal/app"
	"github.com/autostream-assistant/server/internal/metrics"
	"github.com/autostream-assistant/server/internal/transport"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

func newServeCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer turn requests over NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.Metrics.Addr != "" {
				srv, err := serveMetrics(cfg.Metrics.Addr)
				if err != nil {
					return err
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			conn, err := a.NATS()
			if err != nil {
				return err
			}
			server := transport.NewNATSServer(conn, &cfg.NATS, a.Service)
			if err := server.Start(); err != nil {
				return err
			}
			defer server.Close()

			logx.Info().Str("subject", cfg.NATS.RequestSubject).Msg("assistant serving")
			<-ctx.Done()
			logx.Info().Msg("shutting down")
			return nil
		},
	}
}

func serveMetrics(addr string) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	logx.Info().Str("addr", addr).Msg("metrics listening")
	return srv, nil
}
