// Package repository loads the attendance, ranking and prediction datasets
// from files and memoizes them for the lifetime of the process.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/okian/pulso/internal/domain/attendance"
	"github.com/okian/pulso/internal/domain/types"
	"github.com/okian/pulso/pkg/logger"
	"github.com/okian/pulso/pkg/metrics"
)

// Dataset names used in logs and metrics.
const (
	DatasetAttendance  = "attendance"
	DatasetRanking     = "ranking"
	DatasetPredictions = "predictions"
)

// Source provides the three datasets.
type Source interface {
	// Attendance returns the mandatory attendance table. The error wraps
	// ErrAttendanceMissing or ErrAttendanceMalformed.
	Attendance(ctx context.Context) (*attendance.Table, error)
	// Ranking returns the optional gamification ranking.
	Ranking(ctx context.Context) types.Optional[types.Table]
	// Predictions returns the optional absence predictions.
	Predictions(ctx context.Context) types.Optional[types.PredictionTable]
}

// Dataset is the result of one full load.
type Dataset struct {
	Attendance  *attendance.Table
	Ranking     types.Optional[types.Table]
	Predictions types.Optional[types.PredictionTable]
}

// FileSource reads the attendance workbook with excelize and the two
// optional datasets as csv.
type FileSource struct {
	attendancePath  string
	rankingPath     string
	predictionsPath string
	sheet           string
	policy          attendance.Policy
	log             logger.Logger
}

// NewFileSource creates a source for the workbook at attendancePath.
func NewFileSource(attendancePath string, opts ...Option) *FileSource {
	s := &FileSource{
		attendancePath: attendancePath,
		policy:         attendance.Reject,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attendance implements Source.
func (s *FileSource) Attendance(ctx context.Context) (*attendance.Table, error) {
	start := time.Now()
	if _, err := os.Stat(s.attendancePath); errors.Is(err, fs.ErrNotExist) {
		metrics.RecordErrorByComponent("repository", "missing")
		return nil, fmt.Errorf("%w: %s", ErrAttendanceMissing, s.attendancePath)
	}

	t, err := readAttendance(s.attendancePath, s.sheet, s.policy)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "malformed")
		return nil, err
	}

	metrics.RecordDatasetLoad(DatasetAttendance, msSince(start), t.Len())
	rejected := t.RejectedByReason()
	for reason, n := range rejected {
		metrics.UpdateDatasetRejectedRows(DatasetAttendance, reason, n)
	}
	fields := []logger.Field{
		logger.String("path", s.attendancePath),
		logger.Int("rows", t.Len()),
		logger.Int("rejected", len(t.Rejected())),
		logger.Duration("took", time.Since(start)),
	}
	if len(rejected) > 0 {
		reasons := make([]string, 0, len(rejected))
		for r := range rejected {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		fields = append(fields, logger.Strings("reasons", reasons))
		s.logger().Warn(ctx, "attendance rows rejected", fields...)
	} else {
		s.logger().Info(ctx, "attendance loaded", fields...)
	}
	return t, nil
}

// Ranking implements Source.
func (s *FileSource) Ranking(ctx context.Context) types.Optional[types.Table] {
	start := time.Now()
	r := readTable(s.rankingPath)
	s.observe(ctx, DatasetRanking, s.rankingPath, r.Status, r.Reason, r.Value.Len(), start)
	return r
}

// Predictions implements Source.
func (s *FileSource) Predictions(ctx context.Context) types.Optional[types.PredictionTable] {
	start := time.Now()
	p := readPredictions(s.predictionsPath)
	s.observe(ctx, DatasetPredictions, s.predictionsPath, p.Status, p.Reason, p.Value.Len(), start)
	return p
}

// logger returns the configured logger or the global "repository" logger, so
// sources can be built before logger.Init runs.
func (s *FileSource) logger() logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.Named("repository")
}

func (s *FileSource) observe(ctx context.Context, dataset, path string, status types.Availability, reason string, rows int, start time.Time) {
	names := make([]string, len(types.Statuses))
	for i, st := range types.Statuses {
		names[i] = st.String()
	}
	metrics.UpdateDatasetAvailability(dataset, status.String(), names...)

	switch status {
	case types.Available:
		metrics.RecordDatasetLoad(dataset, msSince(start), rows)
		s.logger().Info(ctx, "dataset loaded", logger.String("dataset", dataset), logger.String("path", path), logger.Int("rows", rows))
	case types.Missing:
		s.logger().Info(ctx, "dataset not generated yet", logger.String("dataset", dataset), logger.String("reason", reason))
	default:
		metrics.RecordErrorByComponent("repository", "malformed")
		s.logger().Warn(ctx, "dataset unreadable", logger.String("dataset", dataset), logger.String("reason", reason))
	}
}

// Load reads every dataset from src without caching.
func Load(ctx context.Context, src Source) (Dataset, error) {
	t, err := src.Attendance(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{
		Attendance:  t,
		Ranking:     src.Ranking(ctx),
		Predictions: src.Predictions(ctx),
	}, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
