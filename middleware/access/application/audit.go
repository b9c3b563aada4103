package application

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"messaging-gateway/middleware/access/domain"
)

// AuditTimeLayout é o formato do timestamp no início de cada linha.
const AuditTimeLayout = "2006-01-02 15:04:05.000000"

// Audit grava uma linha por requisição na trilha de auditoria.
//
// Nunca bloqueia a requisição: erros (e panics) do sink são engolidos e
// reportados no log estruturado no máximo uma vez por ReportEvery.
type Audit struct {
	Sink   domain.AuditSink
	Logger *slog.Logger

	report rate.Sometimes
}

func NewAudit(sink domain.AuditSink, logger *slog.Logger, reportEvery time.Duration) *Audit {
	if reportEvery <= 0 {
		reportEvery = time.Minute
	}
	return &Audit{
		Sink:   sink,
		Logger: logger,
		report: rate.Sometimes{First: 1, Interval: reportEvery},
	}
}

// Line monta a linha "<timestamp> - User: <nome|Anonymous> - Path: <path>".
func Line(req domain.Request, now time.Time) string {
	return fmt.Sprintf("%s - User: %s - Path: %s", now.Format(AuditTimeLayout), req.Principal.DisplayName(), req.Path)
}

// Record é best-effort: nunca devolve erro nem decisão.
func (a *Audit) Record(req domain.Request, now time.Time) {
	if a == nil || a.Sink == nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			a.fail(fmt.Errorf("audit sink panic: %v", p))
		}
	}()

	if err := a.Sink.Append(Line(req, now)); err != nil {
		a.fail(err)
	}
}

func (a *Audit) fail(err error) {
	if a.Logger == nil {
		return
	}
	a.report.Do(func() {
		a.Logger.Warn("audit write failed; dropping lines", "error", err)
	})
}
