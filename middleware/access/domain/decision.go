package domain

import "time"

// Status e método usados pelas regras, sem depender de net/http.
const (
	StatusOK              = 200
	StatusForbidden       = 403
	StatusTooManyRequests = 429

	MethodPost = "POST"
)

// Decision é o resultado de um gate: seguir adiante ou encerrar com uma resposta.
//
// O valor zero é Continue.
type Decision struct {
	Terminate bool

	Status int
	// Reason é uma frase curta (ex.: "Authentication required").
	Reason string
	// Body é o texto completo devolvido ao cliente.
	Body string
	// RetryAfter vira o header Retry-After quando > 0.
	RetryAfter time.Duration
	// Err carrega o erro sentinela que explica o encerramento.
	Err error
}

// Continue deixa a requisição seguir para o próximo gate.
func Continue() Decision { return Decision{} }

// Deny encerra a requisição com status e corpo.
func Deny(status int, err error, reason, body string) Decision {
	return Decision{
		Terminate: true,
		Status:    status,
		Reason:    reason,
		Body:      body,
		Err:       err,
	}
}

func (d Decision) Allowed() bool { return !d.Terminate }

// StatusCode devolve o status efetivo; 200 quando a decisão é Continue.
func (d Decision) StatusCode() int {
	if !d.Terminate {
		return StatusOK
	}
	if d.Status == 0 {
		return StatusForbidden
	}
	return d.Status
}
