// Package filter narrows the attendance table to a user selection.
package filter

import (
	"fmt"
	"sort"

	"github.com/okian/pulso/internal/domain/attendance"
)

// Selection is the set of activities and weekdays a user has chosen.
// Both dimensions are sets; order and duplicates are irrelevant.
type Selection struct {
	Activities []string `json:"activities"`
	Weekdays   []string `json:"weekdays"`
}

// All returns the default selection: every value present in the table.
func All(t *attendance.Table) Selection {
	return Selection{Activities: t.Activities(), Weekdays: t.Weekdays()}
}

// Normalize returns a copy with duplicates removed and values sorted.
// Nil dimensions become empty slices so they encode as [] rather than null.
func (s Selection) Normalize() Selection {
	return Selection{Activities: uniqueSorted(s.Activities), Weekdays: uniqueSorted(s.Weekdays)}
}

// Empty reports whether either dimension is empty, in which case the filter
// result is always empty.
func (s Selection) Empty() bool {
	return len(s.Activities) == 0 || len(s.Weekdays) == 0
}

// Validate checks every selected value against the table's domain.
func (s Selection) Validate(t *attendance.Table) error {
	if v, ok := firstUnknown(s.Activities, t.Activities()); !ok {
		return fmt.Errorf("%w: activity %q", ErrUnknownValue, v)
	}
	if v, ok := firstUnknown(s.Weekdays, t.Weekdays()); !ok {
		return fmt.Errorf("%w: weekday %q", ErrUnknownValue, v)
	}
	return nil
}

// Apply returns the rows whose activity is selected AND whose weekday is
// selected, preserving table order.
func Apply(t *attendance.Table, s Selection) []attendance.Record {
	out := make([]attendance.Record, 0)
	if s.Empty() {
		return out
	}
	acts := toSet(s.Activities)
	days := toSet(s.Weekdays)
	for _, r := range t.Records() {
		if _, ok := acts[r.Activity]; !ok {
			continue
		}
		if _, ok := days[r.Weekday]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func uniqueSorted(values []string) []string {
	set := toSet(values)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func firstUnknown(values, domain []string) (string, bool) {
	known := toSet(domain)
	for _, v := range values {
		if _, ok := known[v]; !ok {
			return v, false
		}
	}
	return "", true
}
