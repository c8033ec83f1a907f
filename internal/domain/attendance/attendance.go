// Package attendance holds the attendance/satisfaction dataset: one row per
// participant per session, validated once at load time and immutable afterwards.
package attendance

import (
	"sort"
)

// Satisfaction scale bounds (inclusive).
const (
	MinSatisfaction = 1.0
	MaxSatisfaction = 5.0
)

// Record is one participant-session row.
type Record struct {
	// Row is the 1-based spreadsheet row, kept for diagnostics.
	Row int `json:"row"`
	// Participant is optional; it is not consumed by the filter or aggregates.
	Participant string `json:"participant,omitempty"`

	Activity string `json:"activity" validate:"required"`
	Weekday  string `json:"weekday" validate:"required"`
	// Attended is 1 when the participant was present, 0 otherwise.
	Attended int `json:"attended" validate:"oneof=0 1"`
	// Satisfaction is nil when the rating is missing.
	Satisfaction *float64 `json:"satisfaction" validate:"omitempty,gte=1,lte=5"`
}

// Present reports whether the participant attended.
func (r Record) Present() bool { return r.Attended == 1 }

// Rejection describes a row dropped by validation.
type Rejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Table is an immutable set of validated records. The zero value is an empty table.
type Table struct {
	records    []Record
	rejected   []Rejection
	activities []string
	weekdays   []string
}

// NewTable builds a table from already validated records. The slices are copied.
func NewTable(records []Record, rejected []Rejection) *Table {
	t := &Table{
		records:  append([]Record(nil), records...),
		rejected: append([]Rejection(nil), rejected...),
	}
	t.activities = distinct(t.records, func(r Record) string { return r.Activity })
	t.weekdays = distinct(t.records, func(r Record) string { return r.Weekday })
	return t
}

// Records returns the rows. Callers must not modify the returned slice.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	return t.records
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Activities returns the distinct activity labels in lexicographic order.
func (t *Table) Activities() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.activities...)
}

// Weekdays returns the distinct weekday labels in lexicographic order.
func (t *Table) Weekdays() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.weekdays...)
}

// Rejected lists rows dropped at load time.
func (t *Table) Rejected() []Rejection {
	if t == nil {
		return nil
	}
	return append([]Rejection(nil), t.rejected...)
}

// RejectedByReason counts rejections per reason.
func (t *Table) RejectedByReason() map[string]int {
	out := make(map[string]int)
	for _, r := range t.Rejected() {
		out[r.Reason]++
	}
	return out
}

func distinct(records []Record, key func(Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
