package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messaging-gateway/middleware/access"
	"messaging-gateway/middleware/access/application"
	"messaging-gateway/middleware/access/infra"
)

func main() {
	// Exemplo: injetando o pipeline diretamente na API de chat (sem proxy)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := application.DefaultConfig()
	slidingLog := infra.NewSlidingLog(cfg.Window, cfg.MaxRequests, infra.WithSweepEvery(cfg.SweepEvery))

	auditSink, err := infra.OpenFileAuditSink("logs/requests.log")
	if err != nil {
		logger.Error("audit sink", "err", err)
		os.Exit(1)
	}
	defer func() { _ = auditSink.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	slidingLog.StartJanitor(ctx)

	stats := infra.NewMemoryStatsStore()

	h := access.Middleware(access.Options{
		Config:              &cfg,
		Log:                 slidingLog,
		AuditSink:           auditSink,
		Stats:               stats,
		Logger:              logger,
		TrustXForwardedFor:  true,
		PrincipalFn:         access.HeaderPrincipal("X-User", "X-User-Role"), // em produção vem da camada de auth
		AddRateLimitHeaders: true,
	})(chatMux(stats))

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("example server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
	}
}

// chatMux é um stub da API de chat: só ecoa o que chegou.
func chatMux(stats *infra.MemoryStatsStore) http.Handler {
	mux := http.NewServeMux()

	echo := func(kind string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			status := http.StatusOK
			if r.Method == http.MethodPost {
				status = http.StatusCreated
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(status)
			_, _ = fmt.Fprintf(w, "%s: %s %s\n", kind, r.Method, r.URL.Path)
		}
	}

	mux.HandleFunc("/api/v1/messages/", echo("messages"))
	mux.HandleFunc("/api/v1/conversations/", echo("conversations"))
	mux.HandleFunc("/api/v1/users/", echo("users"))
	mux.HandleFunc("/api/v1/moderation/", echo("moderation"))
	mux.HandleFunc("/admin/", func(w http.ResponseWriter, _ *http.Request) {
		t := stats.Total()
		_, _ = fmt.Fprintf(w, "allowed=%d denied=%d denied_by_gate=%v\n", t.Allowed, t.Denied, stats.DeniedByGate())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
