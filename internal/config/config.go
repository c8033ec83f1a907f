// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file, an optional .env file and PULSO_ env vars on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Validation policies for malformed attendance rows.
const (
	// PolicyReject drops malformed rows and reports them.
	PolicyReject = "reject"
	// PolicyStrict fails the attendance load on the first malformed row.
	PolicyStrict = "strict"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// AttendancePath is the mandatory attendance/satisfaction workbook.
	AttendancePath string `koanf:"attendance_path"`

	// AttendanceSheet selects a sheet by name; empty means the first sheet.
	AttendanceSheet string `koanf:"attendance_sheet"`

	// RankingPath and PredictionsPath are optional CSV artifacts.
	RankingPath     string `koanf:"ranking_path"`
	PredictionsPath string `koanf:"predictions_path"`

	// TopN caps the ranking and prediction listings.
	TopN int `koanf:"top_n"`

	// ValidationPolicy is "reject" or "strict".
	ValidationPolicy string `koanf:"validation_policy"`

	// SessionCookie names the cookie carrying the session id.
	SessionCookie string `koanf:"session_cookie"`

	// SessionTTLMinutes expires idle sessions.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// MaxSessions bounds the in-memory session store.
	MaxSessions int `koanf:"max_sessions"`

	// NoDataLabel is displayed for metrics of an empty selection.
	NoDataLabel string `koanf:"no_data_label"`

	// Title is the dashboard heading.
	Title string `koanf:"title"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8501",
		AttendancePath:    "data/dados_idosos_simulados_v2.xlsx",
		RankingPath:       "data/ranking_gamificacao.csv",
		PredictionsPath:   "data/previsoes_faltas.csv",
		TopN:              10,
		ValidationPolicy:  PolicyReject,
		SessionCookie:     "pulso_session",
		SessionTTLMinutes: 120,
		MaxSessions:       10_000,
		NoDataLabel:       "—",
		Title:             "Physical Activity Program for Older Adults",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.AttendancePath) == "":
		return fmt.Errorf("%w: attendance_path must not be empty", ErrInvalidConfig)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be at least 1", ErrInvalidConfig)
	case c.SessionTTLMinutes < 1:
		return fmt.Errorf("%w: session_ttl_minutes must be at least 1", ErrInvalidConfig)
	case strings.TrimSpace(c.SessionCookie) == "":
		return fmt.Errorf("%w: session_cookie must not be empty", ErrInvalidConfig)
	}
	switch c.ValidationPolicy {
	case PolicyReject, PolicyStrict:
	default:
		return fmt.Errorf("%w: unknown validation_policy %q", ErrInvalidConfig, c.ValidationPolicy)
	}
	return nil
}
