package application

import (
	"time"

	"messaging-gateway/middleware/access/domain"
)

// Pipeline aplica os estágios numa ordem fixa:
//
//	Audit -> RateLimit -> TimeWindow -> Role -> downstream
//
// A auditoria vê toda requisição; o primeiro gate que encerra vence e os
// seguintes não são consultados.
type Pipeline struct {
	Audit *Audit
	Gates []domain.Gate
	Clock func() time.Time
}

// NewPipeline monta a ordem canônica a partir da configuração.
func NewPipeline(cfg Config, log domain.TimestampLog, audit *Audit) *Pipeline {
	return &Pipeline{
		Audit: audit,
		Gates: []domain.Gate{
			NewRateLimitGate(cfg, log),
			NewTimeWindowGate(cfg),
			NewRoleGate(cfg),
		},
		Clock: time.Now,
	}
}

// Result é o desfecho de Evaluate. Gate fica vazio quando a requisição segue.
type Result struct {
	Decision domain.Decision
	Gate     string
	At       time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock()
}

func (p *Pipeline) Evaluate(req domain.Request) Result {
	now := p.now()

	p.Audit.Record(req, now)

	for _, g := range p.Gates {
		if g == nil {
			continue
		}
		if dec := g.Check(req, now); dec.Terminate {
			return Result{Decision: dec, Gate: g.Name(), At: now}
		}
	}
	return Result{Decision: domain.Continue(), At: now}
}
