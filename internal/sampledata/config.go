// Package sampledata writes a simulated attendance workbook together with the
// ranking and prediction files normally produced by the offline notebooks.
package sampledata

import (
	"errors"
	"time"

	"github.com/okian/pulso/pkg/logger"
)

// Config describes what to generate and where.
type Config struct {
	Participants int
	Weeks        int
	Seed         int64
	// Start is the Monday of the first simulated week.
	Start time.Time

	AttendancePath  string
	RankingPath     string
	PredictionsPath string

	SkipRanking     bool
	SkipPredictions bool

	// Logger receives the run summary; the global "sampledata" logger is used when nil.
	Logger logger.Logger
}

// Report summarizes a generation run.
type Report struct {
	Participants int
	Rows         int
	Attended     int
	Files        []string
}

// ErrInvalidConfig is returned for non-positive sizes or missing paths.
var ErrInvalidConfig = errors.New("invalid sample data config")

// DefaultConfig returns a config with the default sizes and paths.
func DefaultConfig() Config {
	return Config{
		Participants:    40,
		Weeks:           12,
		Seed:            1,
		Start:           time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		AttendancePath:  "data/dados_idosos_simulados_v2.xlsx",
		RankingPath:     "data/ranking_gamificacao.csv",
		PredictionsPath: "data/previsoes_faltas.csv",
	}
}
