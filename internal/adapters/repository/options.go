package repository

import (
	"github.com/okian/pulso/internal/domain/attendance"
	"github.com/okian/pulso/pkg/logger"
)

// Option applies a configuration option to the FileSource.
type Option func(*FileSource)

// WithSheet selects the attendance worksheet by name. The first sheet is used
// when empty.
func WithSheet(name string) Option {
	return func(s *FileSource) {
		s.sheet = name
	}
}

// WithPolicy sets how malformed attendance rows are handled.
func WithPolicy(p attendance.Policy) Option {
	return func(s *FileSource) {
		s.policy = p
	}
}

// WithRankingPath sets the ranking csv path. Empty means the dataset is
// always reported missing.
func WithRankingPath(path string) Option {
	return func(s *FileSource) {
		s.rankingPath = path
	}
}

// WithPredictionsPath sets the predictions csv path.
func WithPredictionsPath(path string) Option {
	return func(s *FileSource) {
		s.predictionsPath = path
	}
}

// WithLogger sets the logger. The global "repository" logger is used otherwise.
func WithLogger(l logger.Logger) Option {
	return func(s *FileSource) {
		if l != nil {
			s.log = l
		}
	}
}
