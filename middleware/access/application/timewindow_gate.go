package application

import (
	"fmt"
	"time"

	"messaging-gateway/middleware/access/domain"
)

const GateTimeWindow = "timewindow"

// TimeWindowGate restringe as rotas de chat a um intervalo de horas do dia.
// Sem estado: depende só do relógio e da configuração.
type TimeWindowGate struct {
	StartHour int
	EndHour   int
	Location  *time.Location
	Paths     PathSet
	Excluded  PathSet
}

func NewTimeWindowGate(cfg Config) *TimeWindowGate {
	return &TimeWindowGate{
		StartHour: cfg.StartHour,
		EndHour:   cfg.EndHour,
		Location:  cfg.Location,
		Paths:     cfg.ChatPaths.Without(cfg.ChatExcluded),
		Excluded:  cfg.ChatExcluded,
	}
}

func (g *TimeWindowGate) Name() string { return GateTimeWindow }

// Applies informa se o caminho é da classe "chat". Prefixos excluídos
// ganham mesmo quando aninhados sob um prefixo de chat.
func (g *TimeWindowGate) Applies(path string) bool {
	return g.Paths.Match(path) && !g.Excluded.Match(path)
}

// Open informa se a hora local de now está em [StartHour, EndHour).
func (g *TimeWindowGate) Open(now time.Time) bool {
	if g.Location != nil {
		now = now.In(g.Location)
	}
	h := now.Hour()
	return g.StartHour <= h && h < g.EndHour
}

func (g *TimeWindowGate) Check(req domain.Request, now time.Time) domain.Decision {
	if !g.Applies(req.Path) || g.Open(now) {
		return domain.Continue()
	}

	if g.Location != nil {
		now = now.In(g.Location)
	}
	body := fmt.Sprintf(
		"403 Forbidden\n"+
			"Access to the messaging app is restricted.\n"+
			"Please try again between %s and %s.\n"+
			"Current server time: %s\n",
		hourLabel(g.StartHour), hourLabel(g.EndHour), now.Format(time.TimeOnly))

	return domain.Deny(domain.StatusForbidden, domain.ErrOutsideHours, "Access restricted", body)
}

// hourLabel formata 6 -> "6:00 AM", 21 -> "9:00 PM".
func hourLabel(h int) string {
	return time.Date(2000, 1, 1, h%24, 0, 0, 0, time.UTC).Format("3:04 PM")
}
