package access

import (
	"context"
	"net/http"
	"strings"

	"messaging-gateway/middleware/access/domain"
)

// PrincipalFunc devolve o resultado da autenticação feita antes do pipeline.
type PrincipalFunc func(r *http.Request) domain.Principal

type principalKey struct{}

// WithPrincipal anexa o usuário autenticado ao contexto. Use num middleware de
// autenticação que rode antes deste.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext devolve o usuário do contexto, ou Anonymous.
func PrincipalFromContext(ctx context.Context) domain.Principal {
	if p, ok := ctx.Value(principalKey{}).(domain.Principal); ok {
		return p
	}
	return domain.Anonymous
}

// ContextPrincipal é o PrincipalFunc padrão.
func ContextPrincipal(r *http.Request) domain.Principal {
	return PrincipalFromContext(r.Context())
}

// HeaderPrincipal confia em headers preenchidos por um proxy de autenticação
// (ex.: X-Auth-User / X-Auth-Role). Só use atrás de um proxy que remova esses
// headers vindos do cliente.
//
// Quando o contexto já tem um usuário ele é usado.
func HeaderPrincipal(userHeader, roleHeader string) PrincipalFunc {
	return func(r *http.Request) domain.Principal {
		if p, ok := r.Context().Value(principalKey{}).(domain.Principal); ok {
			return p
		}

		user := strings.TrimSpace(r.Header.Get(userHeader))
		if user == "" {
			return domain.Anonymous
		}
		p := domain.Principal{Authenticated: true, Username: user}
		if roleHeader != "" {
			if role := strings.TrimSpace(r.Header.Get(roleHeader)); role != "" {
				p = p.WithRole(strings.ToLower(role))
			}
		}
		return p
	}
}
