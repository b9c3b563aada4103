package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"messaging-gateway/middleware/access/domain"
)

func TestContextPrincipal_DefaultsToAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, domain.Anonymous, ContextPrincipal(r))

	p := domain.Principal{Authenticated: true, Username: "alice"}.WithRole("admin")
	r = r.WithContext(WithPrincipal(r.Context(), p))
	assert.Equal(t, p, ContextPrincipal(r))
}

func TestHeaderPrincipal(t *testing.T) {
	fn := HeaderPrincipal("X-Auth-User", "X-Auth-Role")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, fn(r).Authenticated)

	r.Header.Set("X-Auth-User", "bob")
	p := fn(r)
	assert.True(t, p.Authenticated)
	assert.Equal(t, "bob", p.Username)
	assert.False(t, p.HasRole)

	r.Header.Set("X-Auth-Role", " Moderator ")
	p = fn(r)
	assert.True(t, p.HasRole)
	assert.Equal(t, "moderator", p.Role)
}

func TestHeaderPrincipal_ContextWins(t *testing.T) {
	fn := HeaderPrincipal("X-Auth-User", "X-Auth-Role")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Auth-User", "mallory")
	r.Header.Set("X-Auth-Role", "admin")
	r = r.WithContext(WithPrincipal(r.Context(), domain.Anonymous))

	assert.Equal(t, domain.Anonymous, fn(r))
}
