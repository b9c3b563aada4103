package domain

import "errors"

var (
	// ErrRateLimited: o cliente excedeu o limite da janela. Recuperável após Retry-After.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrOutsideHours: acesso fora da janela de horário permitida.
	ErrOutsideHours = errors.New("access outside allowed hours")

	// ErrForbidden é a raiz das negações de autorização.
	ErrForbidden = errors.New("access denied")

	ErrUnauthenticated  = &denial{reason: "authentication required"}
	ErrInsufficientRole = &denial{reason: "insufficient privileges"}
)

type denial struct {
	reason string
}

func (d *denial) Error() string { return ErrForbidden.Error() + ": " + d.reason }

func (d *denial) Unwrap() error { return ErrForbidden }

func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
