package application

import (
	"errors"
	"time"

	"messaging-gateway/middleware/access/domain"
)

// Config reúne as regras do pipeline. É montada na inicialização e não muda depois.
type Config struct {
	// rate limit de escrita
	Window        time.Duration
	MaxRequests   int
	SweepEvery    time.Duration
	LimitedPaths  PathSet
	LimitedMethod string

	// janela de horário, intervalo [StartHour, EndHour)
	StartHour    int
	EndHour      int
	Location     *time.Location
	ChatPaths    PathSet
	ChatExcluded PathSet

	// papéis
	ProtectedPaths   PathSet
	ProtectedMethods []string
	APIPrefix        string
	PublicWritePaths PathSet
	AllowedRoles     []string
}

func DefaultConfig() Config {
	return Config{
		Window:        60 * time.Second,
		MaxRequests:   5,
		SweepEvery:    300 * time.Second,
		LimitedMethod: domain.MethodPost,
		LimitedPaths: PathSet{
			"/api/v1/messages/",
			"/api/v1/conversations/",
			"/messages/",
			"/conversations/",
		},

		StartHour:    6,
		EndHour:      21,
		Location:     time.Local,
		ChatPaths:    PathSet{"/api/v1/", "/admin/", "/conversations", "/messages"},
		ChatExcluded: PathSet{"/admin/"},

		ProtectedPaths: PathSet{
			"/admin/",
			"/api/v1/admin/",
			"/api/v1/users/",
			"/api/v1/conversations/delete/",
			"/api/v1/messages/delete/",
			"/api/v1/moderation/",
		},
		ProtectedMethods: []string{"POST", "PUT", "PATCH", "DELETE"},
		APIPrefix:        "/api/v1/",
		PublicWritePaths: PathSet{"/api/v1/conversations/", "/api/v1/messages/"},
		AllowedRoles:     []string{"admin", "moderator"},
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Window <= 0 {
		errs = append(errs, errors.New("rate window must be > 0"))
	}
	if c.MaxRequests <= 0 {
		errs = append(errs, errors.New("rate max requests must be > 0"))
	}
	if c.SweepEvery < 0 {
		errs = append(errs, errors.New("sweep interval must be >= 0"))
	}
	if c.StartHour < 0 || c.StartHour > 23 {
		errs = append(errs, errors.New("start hour must be within 0..23"))
	}
	if c.EndHour < 1 || c.EndHour > 24 {
		errs = append(errs, errors.New("end hour must be within 1..24"))
	}
	if c.StartHour >= c.EndHour {
		errs = append(errs, errors.New("start hour must be before end hour"))
	}
	if len(c.AllowedRoles) == 0 {
		errs = append(errs, errors.New("at least one allowed role is required"))
	}
	return errors.Join(errs...)
}
