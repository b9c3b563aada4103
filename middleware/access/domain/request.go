package domain

// Key identifica o cliente para fins de rate limit (na prática, o IP aparente).
type Key string

// Principal é o resultado da autenticação feita antes do gateway.
//
// Role é opcional: HasRole=false significa "sem papel" e é tratado como negação
// pelas regras de papel.
type Principal struct {
	Authenticated bool
	Username      string
	Role          string
	HasRole       bool
}

// Anonymous é o Principal de quem não se autenticou.
var Anonymous = Principal{}

// WithRole devolve uma cópia do Principal com o papel preenchido.
func (p Principal) WithRole(role string) Principal {
	p.Role = role
	p.HasRole = true
	return p
}

// DisplayName é o nome usado na trilha de auditoria.
func (p Principal) DisplayName() string {
	if !p.Authenticated || p.Username == "" {
		return "Anonymous"
	}
	return p.Username
}

// Request é a visão mínima de uma requisição que os gates precisam.
//
// Method/Path são strings genéricas; quem monta o Request (o adapter HTTP)
// já resolveu a identidade do cliente em Key.
type Request struct {
	Method    string
	Path      string
	Key       Key
	Principal Principal
}
