package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"messaging-gateway/middleware/access/domain"
)

func TestRoleGate_Protected(t *testing.T) {
	g := NewRoleGate(DefaultConfig())

	cases := []struct {
		method, path string
		want         bool
	}{
		// prefixos protegidos, qualquer método
		{"GET", "/admin/", true},
		{"GET", "/api/v1/users/", true},
		{"GET", "/api/v1/moderation/queue", true},
		{"DELETE", "/api/v1/messages/delete/", true},
		{"POST", "/api/v1/conversations/delete/9", true},

		// escrita pública
		{"POST", "/api/v1/messages/", false},
		{"POST", "/api/v1/conversations/", false},
		{"POST", "/api/v1/conversations/4/messages/", false},
		{"DELETE", "/api/v1/messages/", false},

		// escrita fora da lista pública
		{"PUT", "/api/v1/messages/7/", true},
		{"PATCH", "/api/v1/conversations/4/", true},
		{"DELETE", "/api/v1/conversations/4/", true},
		{"POST", "/api/v1/reports/", true},

		// leitura fora dos prefixos protegidos
		{"GET", "/api/v1/messages/", false},
		{"GET", "/api/v1/conversations/4/", false},

		// escrita fora da API
		{"POST", "/messages/", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, g.Protected(c.method, c.path), "%s %s", c.method, c.path)
	}
}

func TestRoleGate_Decisions(t *testing.T) {
	g := NewRoleGate(DefaultConfig())
	now := clockAt(10, 0)
	req := domain.Request{Method: "DELETE", Path: "/api/v1/messages/delete/"}

	dec := g.Check(req, now)
	assert.False(t, dec.Allowed())
	assert.Equal(t, "Authentication required", dec.Reason)
	assert.ErrorIs(t, dec.Err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, dec.Err, domain.ErrForbidden)
	assert.Contains(t, dec.Body, "Your status: Not authenticated")

	req.Principal = domain.Principal{Authenticated: true, Username: "bob"}.WithRole("guest")
	dec = g.Check(req, now)
	assert.False(t, dec.Allowed())
	assert.Equal(t, "Insufficient privileges", dec.Reason)
	assert.ErrorIs(t, dec.Err, domain.ErrInsufficientRole)
	assert.Contains(t, dec.Body, "Your status: User role: guest")
	assert.Contains(t, dec.Body, "Required roles: admin, moderator")

	req.Principal = domain.Principal{Authenticated: true, Username: "root"}.WithRole("admin")
	assert.True(t, g.Check(req, now).Allowed())

	req.Principal = domain.Principal{Authenticated: true, Username: "mod"}.WithRole("moderator")
	assert.True(t, g.Check(req, now).Allowed())
}

func TestRoleGate_MissingRoleIsDenied(t *testing.T) {
	g := NewRoleGate(DefaultConfig())
	req := domain.Request{
		Method:    "GET",
		Path:      "/api/v1/users/",
		Principal: domain.Principal{Authenticated: true, Username: "alice"},
	}

	dec := g.Check(req, time.Now())
	assert.False(t, dec.Allowed())
	assert.ErrorIs(t, dec.Err, domain.ErrInsufficientRole)
	assert.Contains(t, dec.Body, "User role: unknown")
}

func TestRoleGate_RoleWithoutAuthenticationIsDenied(t *testing.T) {
	g := NewRoleGate(DefaultConfig())
	req := domain.Request{
		Method:    "GET",
		Path:      "/admin/",
		Principal: domain.Principal{}.WithRole("admin"),
	}
	dec := g.Check(req, time.Now())
	assert.ErrorIs(t, dec.Err, domain.ErrUnauthenticated)
}

func TestRoleGate_UnprotectedPassesAnonymous(t *testing.T) {
	g := NewRoleGate(DefaultConfig())
	assert.True(t, g.Check(domain.Request{Method: "GET", Path: "/api/v1/messages/"}, time.Now()).Allowed())
}
