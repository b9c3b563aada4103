package application

import (
	"errors"
	"strings"
	"sync"
	"time"

	"messaging-gateway/middleware/access/domain"
)

// memLog é um TimestampLog mínimo para os testes deste pacote (sem importar infra).
type memLog struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	ts     map[domain.Key][]time.Time
}

func newMemLog(window time.Duration, max int) *memLog {
	return &memLog{window: window, max: max, ts: map[domain.Key][]time.Time{}}
}

func (l *memLog) Admit(k domain.Key, now time.Time) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-l.window)
	kept := l.ts[k][:0:0]
	for _, t := range l.ts[k] {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.ts[k] = kept
		return len(kept), false
	}
	l.ts[k] = append(kept, now)
	return len(kept) + 1, true
}

type bufSink struct {
	mu    sync.Mutex
	lines []string
	err   error
	panic bool
}

func (s *bufSink) Append(line string) error {
	if s.panic {
		panic("disk on fire")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, line)
	return nil
}

func (s *bufSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

var errDiskFull = errors.New("disk full")

type countingGate struct {
	name  string
	dec   domain.Decision
	calls int
}

func (g *countingGate) Name() string { return g.name }

func (g *countingGate) Check(domain.Request, time.Time) domain.Decision {
	g.calls++
	return g.dec
}

func hasLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// clockAt devolve um relógio fixo em 2026-03-10 <hour>:00:00 + sec segundos, horário local.
func clockAt(hour, sec int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.Local).Add(time.Duration(sec) * time.Second)
}
