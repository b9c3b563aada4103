package infra

import (
	"context"
	"sync"
	"time"

	"messaging-gateway/middleware/access/domain"
)

// SlidingLog é um rate limiter de janela deslizante: guarda, por chave, os
// instantes das requisições aceitas e conta quantos caem em [now-window, now].
//
// Toda a estrutura fica sob um único mutex: poda, contagem, registro e a
// varredura periódica nunca se intercalam.
type SlidingLog struct {
	mu        sync.Mutex
	entries   map[domain.Key][]time.Time
	window    time.Duration
	max       int
	sweep     time.Duration
	lastSweep time.Time
}

type SlidingLogOption func(*SlidingLog)

// WithSweepEvery define o intervalo mínimo entre varreduras completas.
// Zero desliga a varredura oportunista (a poda por chave continua valendo).
func WithSweepEvery(d time.Duration) SlidingLogOption {
	return func(s *SlidingLog) { s.sweep = d }
}

func NewSlidingLog(window time.Duration, max int, opts ...SlidingLogOption) *SlidingLog {
	s := &SlidingLog{
		entries: make(map[domain.Key][]time.Time),
		window:  window,
		max:     max,
		sweep:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SlidingLog) Window() time.Duration     { return s.window }
func (s *SlidingLog) Max() int                  { return s.max }
func (s *SlidingLog) SweepEvery() time.Duration { return s.sweep }

// Admit implementa domain.TimestampLog.
//
// Quando a chave já tem max entradas dentro da janela a requisição é negada e
// NÃO é registrada: uma negação nunca consome vaga.
func (s *SlidingLog) Admit(key domain.Key, now time.Time) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeSweepLocked(now)

	cutoff := now.Add(-s.window)
	ts := prune(s.entries[key], cutoff)

	if len(ts) >= s.max {
		if len(ts) == 0 {
			delete(s.entries, key)
		} else {
			s.entries[key] = ts
		}
		return len(ts), false
	}

	ts = append(ts, now)
	s.entries[key] = ts
	return len(ts), true
}

// Count devolve quantas requisições da chave ainda estão na janela, podando
// as antigas. Chaves que ficam vazias são removidas.
func (s *SlidingLog) Count(key domain.Key, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.entries[key]
	if !ok {
		return 0
	}
	ts = prune(ts, now.Add(-s.window))
	if len(ts) == 0 {
		delete(s.entries, key)
		return 0
	}
	s.entries[key] = ts
	return len(ts)
}

// Len devolve o número de chaves rastreadas.
func (s *SlidingLog) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep poda todas as chaves e remove as que ficaram vazias.
func (s *SlidingLog) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
}

func (s *SlidingLog) maybeSweepLocked(now time.Time) {
	if s.sweep <= 0 {
		return
	}
	if s.lastSweep.IsZero() {
		s.lastSweep = now
		return
	}
	if now.Sub(s.lastSweep) > s.sweep {
		s.sweepLocked(now)
	}
}

func (s *SlidingLog) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	for k, ts := range s.entries {
		ts = prune(ts, cutoff)
		if len(ts) == 0 {
			delete(s.entries, k)
			continue
		}
		s.entries[k] = ts
	}
	s.lastSweep = now
}

// prune descarta o prefixo de timestamps anteriores a cutoff.
// A fatia está ordenada do mais antigo para o mais novo.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	// copia para não segurar o array antigo indefinidamente
	out := make([]time.Time, len(ts)-i, cap(ts)-i)
	copy(out, ts[i:])
	return out
}

// StartJanitor inicia uma goroutine que varre chaves ociosas periodicamente,
// útil em processos que ficam muito tempo sem tráfego de escrita.
// Pare cancelando o contexto.
func (s *SlidingLog) StartJanitor(ctx context.Context) {
	if s.sweep <= 0 {
		return
	}

	t := time.NewTicker(s.sweep)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.Sweep(now)
			}
		}
	}()
}
