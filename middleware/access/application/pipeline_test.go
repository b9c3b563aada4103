package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messaging-gateway/middleware/access/domain"
)

type fixture struct {
	pipeline *Pipeline
	sink     *bufSink
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	f := &fixture{sink: &bufSink{}, now: clockAt(10, 0)}
	f.pipeline = NewPipeline(cfg, newMemLog(cfg.Window, cfg.MaxRequests), NewAudit(f.sink, nil, 0))
	f.pipeline.Clock = func() time.Time { return f.now }
	return f
}

func (f *fixture) at(hour, sec int) *fixture {
	f.now = clockAt(hour, sec)
	return f
}

func TestPipeline_CanonicalOrder(t *testing.T) {
	p := NewPipeline(DefaultConfig(), newMemLog(time.Minute, 5), nil)

	names := make([]string, 0, len(p.Gates))
	for _, g := range p.Gates {
		names = append(names, g.Name())
	}
	assert.Equal(t, []string{GateRateLimit, GateTimeWindow, GateRole}, names)
}

func TestPipeline_RateLimitScenario(t *testing.T) {
	f := newFixture(t)
	req := domain.Request{Method: "POST", Path: "/api/v1/messages/", Key: "1.2.3.4"}

	for i := 0; i < 5; i++ {
		res := f.at(10, i).pipeline.Evaluate(req)
		require.True(t, res.Decision.Allowed(), "request %d", i+1)
		assert.Empty(t, res.Gate)
	}

	res := f.at(10, 5).pipeline.Evaluate(req)
	assert.Equal(t, GateRateLimit, res.Gate)
	assert.Equal(t, domain.StatusTooManyRequests, res.Decision.StatusCode())

	res = f.at(10, 61).pipeline.Evaluate(req)
	assert.True(t, res.Decision.Allowed(), "window slid past t=0")
}

func TestPipeline_TimeWindowScenario(t *testing.T) {
	f := newFixture(t)
	req := domain.Request{Method: "GET", Path: "/conversations", Key: "1.2.3.4"}

	res := f.at(22, 0).pipeline.Evaluate(req)
	assert.Equal(t, GateTimeWindow, res.Gate)
	assert.Equal(t, domain.StatusForbidden, res.Decision.StatusCode())

	res = f.at(10, 0).pipeline.Evaluate(req)
	assert.True(t, res.Decision.Allowed())
}

func TestPipeline_RoleScenario(t *testing.T) {
	f := newFixture(t).at(10, 0)
	req := domain.Request{Method: "DELETE", Path: "/api/v1/messages/delete/", Key: "1.2.3.4"}

	res := f.pipeline.Evaluate(req)
	assert.Equal(t, GateRole, res.Gate)
	assert.Equal(t, "Authentication required", res.Decision.Reason)

	req.Principal = domain.Principal{Authenticated: true, Username: "g"}.WithRole("guest")
	res = f.pipeline.Evaluate(req)
	assert.Equal(t, "Insufficient privileges", res.Decision.Reason)

	req.Principal = domain.Principal{Authenticated: true, Username: "a"}.WithRole("admin")
	res = f.pipeline.Evaluate(req)
	assert.True(t, res.Decision.Allowed())
}

func TestPipeline_AuditSeesEveryRequestOnce(t *testing.T) {
	f := newFixture(t)

	reqs := []domain.Request{
		{Method: "GET", Path: "/conversations"},               // negado pelo horário
		{Method: "DELETE", Path: "/api/v1/users/1"},           // negado pelo horário antes do papel
		{Method: "GET", Path: "/healthz"},                     // segue
		{Method: "POST", Path: "/api/v1/messages/", Key: "k"}, // rate limit ok, horário nega
	}
	f.at(23, 0)
	for _, r := range reqs {
		f.pipeline.Evaluate(r)
	}

	lines := f.sink.Lines()
	require.Len(t, lines, len(reqs))
	for i, r := range reqs {
		assert.Contains(t, lines[i], "Path: "+r.Path)
		assert.Contains(t, lines[i], "User: Anonymous")
	}
}

func TestPipeline_AuditFailureDoesNotChangeOutcome(t *testing.T) {
	cfg := DefaultConfig()
	ok := NewPipeline(cfg, newMemLog(cfg.Window, cfg.MaxRequests), NewAudit(&bufSink{}, nil, 0))
	broken := NewPipeline(cfg, newMemLog(cfg.Window, cfg.MaxRequests), NewAudit(&bufSink{err: errDiskFull}, nil, 0))
	ok.Clock = func() time.Time { return clockAt(10, 0) }
	broken.Clock = ok.Clock

	for _, r := range []domain.Request{
		{Method: "GET", Path: "/api/v1/messages/"},
		{Method: "DELETE", Path: "/api/v1/messages/delete/"},
	} {
		assert.Equal(t, ok.Evaluate(r), broken.Evaluate(r))
	}
}

func TestPipeline_FirstTerminationShortCircuits(t *testing.T) {
	first := &countingGate{name: "first"}
	deny := &countingGate{name: "deny", dec: domain.Deny(domain.StatusForbidden, domain.ErrForbidden, "no", "no\n")}
	never := &countingGate{name: "never"}

	p := &Pipeline{Gates: []domain.Gate{first, deny, never}}
	res := p.Evaluate(domain.Request{Path: "/"})

	assert.Equal(t, "deny", res.Gate)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, deny.calls)
	assert.Equal(t, 0, never.calls)
}

func TestPipeline_RateLimitRunsBeforeTimeWindow(t *testing.T) {
	// à noite o POST é negado pelo horário, mas o rate limit vem antes e já
	// consumiu a vaga
	f := newFixture(t).at(23, 0)
	req := domain.Request{Method: "POST", Path: "/api/v1/messages/", Key: "night-owl"}

	for i := 0; i < 5; i++ {
		res := f.at(23, i).pipeline.Evaluate(req)
		assert.Equal(t, GateTimeWindow, res.Gate)
	}
	res := f.at(23, 5).pipeline.Evaluate(req)
	assert.Equal(t, GateRateLimit, res.Gate)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.StartHour, bad.EndHour = 21, 6
	bad.MaxRequests = 0
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start hour must be before end hour")
	assert.Contains(t, err.Error(), "max requests")
}
