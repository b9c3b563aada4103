package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"messaging-gateway/middleware/access"
	"messaging-gateway/middleware/access/application"
	"messaging-gateway/middleware/access/infra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		listenAddr string
		upstream   string
	)

	cmd := &cobra.Command{
		Use:          "gateway",
		Short:        "Reverse proxy that audits, rate limits and gates access to the chat API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			// flags têm a última palavra
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("upstream") {
				cfg.UpstreamURL = upstream
			}
			if err := cfg.validate(); err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides LISTEN_ADDR)")
	cmd.Flags().StringVar(&upstream, "upstream", "", "upstream URL (overrides UPSTREAM_URL)")
	return cmd
}

func run(ctx context.Context, cfg *config) error {
	logger := newLogger(cfg.Log, os.Stderr)

	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return fmt.Errorf("invalid UPSTREAM_URL: %w", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("proxy error", "err", err, "path", r.URL.Path)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	accessCfg, err := cfg.accessConfig()
	if err != nil {
		return err
	}

	slidingLog := infra.NewSlidingLog(accessCfg.Window, accessCfg.MaxRequests, infra.WithSweepEvery(accessCfg.SweepEvery))
	slidingLog.StartJanitor(ctx)

	auditSink, err := infra.OpenFileAuditSink(cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer func() { _ = auditSink.Close() }()

	st, err := newStats(ctx, cfg.Stats)
	if err != nil {
		return err
	}
	defer st.close()

	audit := application.NewAudit(auditSink, logger, time.Minute)
	pipeline := application.NewPipeline(accessCfg, slidingLog, audit)

	h := access.Middleware(access.Options{
		Pipeline:            pipeline,
		Log:                 slidingLog,
		Stats:               st.store,
		Logger:              logger,
		KeyHeader:           cfg.KeyHeader,
		TrustXForwardedFor:  cfg.TrustXFF,
		PrincipalFn:         access.HeaderPrincipal(cfg.Auth.UserHeader, cfg.Auth.RoleHeader),
		AddRateLimitHeaders: cfg.AddRateLimitHeaders,
	})(proxy)

	servers := []*http.Server{newServer(cfg.ListenAddr, h)}
	if cfg.Metrics.Addr != "" && st.handler != nil {
		mux := http.NewServeMux()
		mux.Handle(st.path, st.handler)
		servers = append(servers, newServer(cfg.Metrics.Addr, mux))
	}

	logger.Info("gateway listening",
		"addr", cfg.ListenAddr,
		"upstream", target.String(),
	)
	logger.Info("access rules",
		"window", accessCfg.Window,
		"max", accessCfg.MaxRequests,
		"sweep", accessCfg.SweepEvery,
		"hours", fmt.Sprintf("[%d, %d)", accessCfg.StartHour, accessCfg.EndHour),
		"location", accessCfg.Location.String(),
		"keyHeader", cfg.KeyHeader,
		"trustXFF", cfg.TrustXFF,
		"audit", cfg.Audit.Path,
	)
	logger.Info("stats", "backend", cfg.Stats.Backend, "metricsAddr", cfg.Metrics.Addr)

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, srv := range servers {
			_ = srv.Shutdown(shutdownCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("gateway stopped", "err", err)
		return err
	}
	logger.Info("gateway stopped")
	return nil
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

func newLogger(cfg logConfig, w *os.File) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
