package access

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"messaging-gateway/middleware/access/application"
	"messaging-gateway/middleware/access/domain"
	"messaging-gateway/middleware/access/infra"
)

type Options struct {
	// Config das regras; nil usa application.DefaultConfig().
	Config *application.Config
	// Pipeline pronto; quando presente, Config/Log/AuditSink são ignorados.
	Pipeline *application.Pipeline

	Log       domain.TimestampLog
	AuditSink domain.AuditSink
	Stats     domain.StatsStore
	Logger    *slog.Logger

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	PrincipalFn        PrincipalFunc

	AddRateLimitHeaders bool
}

type rateInfo interface {
	Window() time.Duration
	Max() int
}

// NewPipeline monta o pipeline canônico a partir das Options, criando um
// SlidingLog em memória quando nenhum Log é informado.
func NewPipeline(opts Options) *application.Pipeline {
	cfg := configOf(opts)
	log := opts.Log
	if log == nil {
		log = newSlidingLog(cfg)
	}
	audit := application.NewAudit(opts.AuditSink, opts.Logger, 0)
	return application.NewPipeline(cfg, log, audit)
}

func configOf(opts Options) application.Config {
	if opts.Config != nil {
		return *opts.Config
	}
	return application.DefaultConfig()
}

func newSlidingLog(cfg application.Config) *infra.SlidingLog {
	return infra.NewSlidingLog(cfg.Window, cfg.MaxRequests, infra.WithSweepEvery(cfg.SweepEvery))
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.PrincipalFn == nil {
		opts.PrincipalFn = ContextPrincipal
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pipeline := opts.Pipeline
	if pipeline == nil {
		if opts.Log == nil {
			opts.Log = newSlidingLog(configOf(opts))
		}
		pipeline = NewPipeline(opts)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := domain.Request{
				Method:    r.Method,
				Path:      r.URL.Path,
				Key:       opts.KeyFn(r),
				Principal: opts.PrincipalFn(r),
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", string(req.Key))
				if ri, ok := opts.Log.(rateInfo); ok {
					w.Header().Set("X-RateLimit-Limit", formatInt(ri.Max()))
					w.Header().Set("X-RateLimit-Window", formatSeconds(ri.Window()))
				}
			}

			res := pipeline.Evaluate(req)
			dec := res.Decision

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     req.Key,
					Gate:    res.Gate,
					Allowed: dec.Allowed(),
					Status:  dec.StatusCode(),
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      res.At,
				})
			}

			span := trace.SpanFromContext(r.Context())
			if !dec.Allowed() {
				span.AddEvent("access.denied", trace.WithAttributes(
					attribute.String("access.gate", res.Gate),
					attribute.Int("http.status_code", dec.StatusCode()),
					attribute.String("access.reason", dec.Reason),
				))
				opts.Logger.Debug("request terminated",
					"gate", res.Gate,
					"status", dec.StatusCode(),
					"reason", dec.Reason,
					"key", string(req.Key),
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeDecision(w, dec)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeDecision(w http.ResponseWriter, dec domain.Decision) {
	if dec.RetryAfter > 0 {
		w.Header().Set("Retry-After", formatSeconds(dec.RetryAfter))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(dec.StatusCode())

	body := dec.Body
	if body == "" {
		body = http.StatusText(dec.StatusCode()) + "\n"
	}
	_, _ = io.WriteString(w, body)
}
