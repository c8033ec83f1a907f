// Package aggregate computes the dashboard's summary metrics and grouped
// attendance averages from a filtered set of attendance records.
package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/pulso/internal/domain/attendance"
)

// percent converts a 0..1 mean into a percentage.
const percent = 100

// Metric is a scalar that may be undefined. Valid is false when the input
// had no rows to average or count.
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func valid(v float64) Metric { return Metric{Value: v, Valid: true} }

// Summary holds the scalar metrics of a filtered table.
type Summary struct {
	Rows int `json:"rows"`
	// AttendanceRate is mean(attended) * 100.
	AttendanceRate Metric `json:"attendance_rate"`
	// MeanSatisfaction averages the non-missing ratings.
	MeanSatisfaction Metric `json:"mean_satisfaction"`
	// TotalAttendances counts rows with attended == 1.
	TotalAttendances Metric `json:"total_attendances"`
	// RatedRows is the number of rows with a satisfaction rating.
	RatedRows int `json:"rated_rows"`
}

// Empty reports whether the summary was computed over no rows.
func (s Summary) Empty() bool { return s.Rows == 0 }

// Group is the mean attendance of one category.
type Group struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Summarize computes the scalar metrics. Every metric of an empty input is
// reported as not valid.
func Summarize(records []attendance.Record) Summary {
	s := Summary{Rows: len(records)}
	if len(records) == 0 {
		return s
	}

	attended := make([]float64, len(records))
	ratings := make([]float64, 0, len(records))
	total := 0
	for i, r := range records {
		attended[i] = float64(r.Attended)
		if r.Present() {
			total++
		}
		if r.Satisfaction != nil {
			ratings = append(ratings, *r.Satisfaction)
		}
	}

	s.AttendanceRate = valid(stat.Mean(attended, nil) * percent)
	s.TotalAttendances = valid(float64(total))
	s.RatedRows = len(ratings)
	if len(ratings) > 0 {
		s.MeanSatisfaction = valid(stat.Mean(ratings, nil))
	}
	return s
}

// ByWeekday returns mean attendance per weekday, ordered by label.
func ByWeekday(records []attendance.Record) []Group {
	return groupMean(records, func(r attendance.Record) string { return r.Weekday })
}

// ByActivity returns mean attendance per activity, ordered by label.
func ByActivity(records []attendance.Record) []Group {
	return groupMean(records, func(r attendance.Record) string { return r.Activity })
}

// groupMean emits one group per distinct key, sorted lexicographically so
// equal means keep a deterministic order.
func groupMean(records []attendance.Record, key func(attendance.Record) string) []Group {
	buckets := make(map[string][]float64)
	for _, r := range records {
		k := key(r)
		buckets[k] = append(buckets[k], float64(r.Attended))
	}

	out := make([]Group, 0, len(buckets))
	for label, xs := range buckets {
		out = append(out, Group{Label: label, Mean: stat.Mean(xs, nil), Count: len(xs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
