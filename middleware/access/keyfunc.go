package access

import (
	"net"
	"net/http"
	"strings"

	"messaging-gateway/middleware/access/domain"
)

type KeyFunc func(r *http.Request) domain.Key

// DefaultKeyFunc identifica o cliente:
//
//   - keyHeader (se configurado e presente) ganha de tudo
//   - com trustXFF, o primeiro IP do X-Forwarded-For (cliente original)
//   - senão, o host de RemoteAddr, ou RemoteAddr cru quando não parseia
//
// Não valida sintaxe de IP e nunca falha; pode devolver "" se o transporte
// não informar nada.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) domain.Key {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return domain.Key(v)
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				return domain.Key(strings.TrimSpace(first))
			}
		}

		addr := strings.TrimSpace(r.RemoteAddr)
		host, _, err := net.SplitHostPort(addr)
		if err == nil && host != "" {
			return domain.Key(host)
		}
		return domain.Key(addr)
	}
}
