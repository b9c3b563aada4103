package application

import (
	"fmt"
	"strings"
	"time"

	"messaging-gateway/middleware/access/domain"
)

const GateRateLimit = "ratelimit"

// RateLimitGate limita escritas (POST) nos endpoints de mensagens/conversas
// por cliente, usando uma janela deslizante.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas devolve uma decisão;
// quem traduz RetryAfter em header é o adapter.
type RateLimitGate struct {
	Log    domain.TimestampLog
	Window time.Duration
	Max    int
	Paths  PathSet
	Method string
}

func NewRateLimitGate(cfg Config, log domain.TimestampLog) *RateLimitGate {
	return &RateLimitGate{
		Log:    log,
		Window: cfg.Window,
		Max:    cfg.MaxRequests,
		Paths:  cfg.LimitedPaths,
		Method: cfg.LimitedMethod,
	}
}

func (g *RateLimitGate) Name() string { return GateRateLimit }

// Applies informa se a requisição entra na classe limitada.
func (g *RateLimitGate) Applies(req domain.Request) bool {
	method := g.Method
	if method == "" {
		method = domain.MethodPost
	}
	return strings.EqualFold(req.Method, method) && g.Paths.Match(req.Path)
}

func (g *RateLimitGate) Check(req domain.Request, now time.Time) domain.Decision {
	if g.Log == nil || !g.Applies(req) {
		return domain.Continue()
	}

	if _, admitted := g.Log.Admit(req.Key, now); admitted {
		return domain.Continue()
	}

	window := g.Window
	if window <= 0 {
		window = time.Minute
	}
	body := fmt.Sprintf(
		"429 Too Many Requests\n"+
			"You have exceeded the rate limit for sending messages.\n"+
			"Limit: %d messages per %d seconds\n"+
			"Please wait before sending another message.\n"+
			"Your IP: %s\n"+
			"Time: %s\n",
		g.Max, int(window.Seconds()), req.Key, now.Format(time.TimeOnly))

	dec := domain.Deny(domain.StatusTooManyRequests, domain.ErrRateLimited, "Rate limit exceeded", body)
	dec.RetryAfter = window
	return dec
}
