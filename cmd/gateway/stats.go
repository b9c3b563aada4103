package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"messaging-gateway/middleware/access/domain"
	"messaging-gateway/middleware/access/infra"
)

// statsBackend agrupa o store escolhido, o handler exposto no listener de
// métricas (quando existe) e o que precisa ser fechado no shutdown.
type statsBackend struct {
	store   domain.StatsStore
	path    string
	handler http.Handler
	close   func()
}

func newStats(ctx context.Context, cfg statsConfig) (*statsBackend, error) {
	b := &statsBackend{close: func() {}}

	switch cfg.Backend {
	case "", "none":
		return b, nil

	case "memory":
		mem := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.TrackKeys))
		b.store = mem
		b.path = "/stats"
		b.handler = memoryStatsHandler(mem)
		return b, nil

	case "prometheus":
		reg := prometheus.NewRegistry()
		ps, err := infra.NewPrometheusStatsStore(reg)
		if err != nil {
			return nil, fmt.Errorf("registering access metrics: %w", err)
		}
		b.store = ps
		b.path = "/metrics"
		b.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		return b, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis stats ping error: %w", err)
		}

		b.store = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.Prefix),
			infra.WithStatsTTL(cfg.TTL),
			infra.WithStatsBucket(cfg.Bucket),
			infra.WithStatsTrackKeys(cfg.TrackKeys),
		)
		b.close = func() { _ = rdb.Close() }
		return b, nil
	}

	return nil, fmt.Errorf("unknown stats backend %q", cfg.Backend)
}

type memorySnapshot struct {
	Total        infra.Counters            `json:"total"`
	ByRoute      map[string]infra.Counters `json:"by_route"`
	DeniedByGate map[string]int64          `json:"denied_by_gate"`
	ByKey        map[string]infra.Counters `json:"by_key,omitempty"`
}

func memoryStatsHandler(mem *infra.MemoryStatsStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(memorySnapshot{
			Total:        mem.Total(),
			ByRoute:      mem.ByRoute(),
			DeniedByGate: mem.DeniedByGate(),
			ByKey:        mem.ByKey(),
		})
	})
}
