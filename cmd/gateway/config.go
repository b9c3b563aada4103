package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"messaging-gateway/middleware/access/application"
)

// config do binário. Ordem de carga: defaults -> arquivo YAML -> variáveis de
// ambiente -> flags. Depois de validada não muda mais.
type config struct {
	ListenAddr          string `envconfig:"LISTEN_ADDR" yaml:"listen_addr"`
	UpstreamURL         string `envconfig:"UPSTREAM_URL" yaml:"upstream_url"`
	KeyHeader           string `envconfig:"KEY_HEADER" yaml:"key_header"`
	TrustXFF            bool   `envconfig:"TRUST_XFF" yaml:"trust_xff"`
	AddRateLimitHeaders bool   `envconfig:"ADD_RATELIMIT_HEADERS" yaml:"add_ratelimit_headers"`

	Rate    rateConfig    `yaml:"rate"`
	Hours   hoursConfig   `yaml:"hours"`
	Paths   pathsConfig   `yaml:"paths"`
	Auth    authConfig    `yaml:"auth"`
	Audit   auditConfig   `yaml:"audit"`
	Stats   statsConfig   `yaml:"stats"`
	Metrics metricsConfig `yaml:"metrics"`
	Log     logConfig     `yaml:"log"`
}

// Nos blocos aninhados o envconfig procura primeiro BLOCO_TAG e depois a tag
// pura, por isso as tags já trazem o nome completo (RATE_WINDOW, AUDIT_PATH...).
type rateConfig struct {
	Window     time.Duration `envconfig:"RATE_WINDOW" yaml:"window"`
	Max        int           `envconfig:"RATE_MAX" yaml:"max"`
	SweepEvery time.Duration `envconfig:"RATE_SWEEP_EVERY" yaml:"sweep_every"`
}

type hoursConfig struct {
	Start    int    `envconfig:"HOURS_START" yaml:"start"`
	End      int    `envconfig:"HOURS_END" yaml:"end"`
	TimeZone string `envconfig:"HOURS_TIMEZONE" yaml:"timezone"`
}

type pathsConfig struct {
	Limited      []string `envconfig:"PATHS_LIMITED" yaml:"limited"`
	Chat         []string `envconfig:"PATHS_CHAT" yaml:"chat"`
	ChatExcluded []string `envconfig:"PATHS_CHAT_EXCLUDED" yaml:"chat_excluded"`
	Protected    []string `envconfig:"PATHS_PROTECTED" yaml:"protected"`
	PublicWrite  []string `envconfig:"PATHS_PUBLIC_WRITE" yaml:"public_write"`
	APIPrefix    string   `envconfig:"PATHS_API_PREFIX" yaml:"api_prefix"`
}

type authConfig struct {
	UserHeader string   `envconfig:"AUTH_USER_HEADER" yaml:"user_header"`
	RoleHeader string   `envconfig:"AUTH_ROLE_HEADER" yaml:"role_header"`
	Roles      []string `envconfig:"AUTH_ROLES" yaml:"roles"`
}

type auditConfig struct {
	Path string `envconfig:"AUDIT_PATH" yaml:"path"`
}

type statsConfig struct {
	Backend       string        `envconfig:"STATS_BACKEND" yaml:"backend"` // none, memory, redis, prometheus
	RedisAddr     string        `envconfig:"STATS_REDIS_ADDR" yaml:"redis_addr"`
	RedisPassword string        `envconfig:"STATS_REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int           `envconfig:"STATS_REDIS_DB" yaml:"redis_db"`
	Prefix        string        `envconfig:"STATS_PREFIX" yaml:"prefix"`
	TTL           time.Duration `envconfig:"STATS_TTL" yaml:"ttl"`
	Bucket        string        `envconfig:"STATS_BUCKET" yaml:"bucket"`
	TrackKeys     bool          `envconfig:"STATS_TRACK_KEYS" yaml:"track_keys"`
}

type metricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR" yaml:"addr"`
}

type logConfig struct {
	Level  string `envconfig:"LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"LOG_FORMAT" yaml:"format"`
}

func defaultConfig() *config {
	d := application.DefaultConfig()
	return &config{
		ListenAddr: ":8080",
		TrustXFF:   true,
		Rate: rateConfig{
			Window:     d.Window,
			Max:        d.MaxRequests,
			SweepEvery: d.SweepEvery,
		},
		Hours: hoursConfig{
			Start: d.StartHour,
			End:   d.EndHour,
		},
		Paths: pathsConfig{
			Limited:      d.LimitedPaths,
			Chat:         d.ChatPaths,
			ChatExcluded: d.ChatExcluded,
			Protected:    d.ProtectedPaths,
			PublicWrite:  d.PublicWritePaths,
			APIPrefix:    d.APIPrefix,
		},
		Auth: authConfig{
			Roles: d.AllowedRoles,
		},
		Audit: auditConfig{Path: "logs/requests.log"},
		Stats: statsConfig{
			Backend: "none",
			Prefix:  "access:stats",
			TTL:     24 * time.Hour,
			Bucket:  "minute",
		},
		Log: logConfig{Level: "info", Format: "text"},
	}
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}
	return cfg, nil
}

func (c *config) validate() error {
	var errs []error

	if strings.TrimSpace(c.UpstreamURL) == "" {
		errs = append(errs, errors.New("UPSTREAM_URL is required"))
	} else if u, err := url.Parse(c.UpstreamURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid UPSTREAM_URL %q", c.UpstreamURL))
	}

	if _, err := c.location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid HOURS_TIMEZONE: %w", err))
	}

	switch c.Stats.Backend {
	case "none", "memory", "prometheus":
	case "redis":
		if strings.TrimSpace(c.Stats.RedisAddr) == "" {
			errs = append(errs, errors.New("STATS_REDIS_ADDR is required when STATS_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STATS_BACKEND %q (must be none, memory, redis or prometheus)", c.Stats.Backend))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q", c.Log.Format))
	}

	if ac, err := c.accessConfig(); err == nil {
		if err := ac.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c *config) location() (*time.Location, error) {
	if strings.TrimSpace(c.Hours.TimeZone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Hours.TimeZone)
}

// accessConfig converte para as regras do pipeline.
func (c *config) accessConfig() (application.Config, error) {
	loc, err := c.location()
	if err != nil {
		return application.Config{}, err
	}

	ac := application.DefaultConfig()
	ac.Window = c.Rate.Window
	ac.MaxRequests = c.Rate.Max
	ac.SweepEvery = c.Rate.SweepEvery
	ac.StartHour = c.Hours.Start
	ac.EndHour = c.Hours.End
	ac.Location = loc
	ac.LimitedPaths = c.Paths.Limited
	ac.ChatPaths = c.Paths.Chat
	ac.ChatExcluded = c.Paths.ChatExcluded
	ac.ProtectedPaths = c.Paths.Protected
	ac.PublicWritePaths = c.Paths.PublicWrite
	ac.APIPrefix = c.Paths.APIPrefix
	ac.AllowedRoles = c.Auth.Roles
	return ac, nil
}
