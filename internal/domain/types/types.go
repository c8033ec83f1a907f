// Package types contains the pass-through datasets produced by offline jobs
// (gamification ranking, absence predictions) and the typed optional result
// used when loading them.
package types

import (
	"fmt"
	"math"
	"sort"
)

// Availability tells whether an optional dataset could be used.
type Availability int

const (
	// Available means the dataset was read.
	Available Availability = iota
	// Missing means the file does not exist yet.
	Missing
	// Malformed means the file exists but could not be parsed.
	Malformed
)

// Statuses lists every availability in declaration order.
var Statuses = []Availability{Available, Missing, Malformed}

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Missing:
		return "missing"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// MarshalText encodes the availability by name.
func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a name written by MarshalText.
func (a *Availability) UnmarshalText(b []byte) error {
	for _, st := range Statuses {
		if st.String() == string(b) {
			*a = st
			return nil
		}
	}
	return fmt.Errorf("unknown availability %q", b)
}

// Optional wraps a dataset that may be absent. Reason explains a Missing or
// Malformed status.
type Optional[T any] struct {
	Value  T            `json:"value"`
	Status Availability `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// Some wraps an available value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Status: Available}
}

// Absent builds a Missing or Malformed result.
func Absent[T any](status Availability, reason string) Optional[T] {
	return Optional[T]{Status: status, Reason: reason}
}

// Ok reports whether the value is available.
func (o Optional[T]) Ok() bool { return o.Status == Available }

// Table is an opaque tabular dataset: a header and string cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Head returns the first n rows in file order.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// PredictionTable is a Table with a parsed absence-probability column.
// Probabilities[i] belongs to Rows[i]; NaN marks a blank or unparseable cell.
type PredictionTable struct {
	Table
	ProbabilityColumn int       `json:"probability_column"`
	Probabilities     []float64 `json:"-"`
}

// Top returns the n rows with the highest probability of absence, highest
// first. Ties keep file order and NaN values sort last.
func (p PredictionTable) Top(n int) PredictionTable {
	idx := make([]int, len(p.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := p.Probabilities[idx[a]], p.Probabilities[idx[b]]
		switch {
		case math.IsNaN(pa):
			return false
		case math.IsNaN(pb):
			return true
		}
		return pa > pb
	})

	if n < 0 {
		n = 0
	}
	if n > len(idx) {
		n = len(idx)
	}
	out := PredictionTable{
		Table:             Table{Columns: p.Columns, Rows: make([][]string, n)},
		ProbabilityColumn: p.ProbabilityColumn,
		Probabilities:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Rows[i] = p.Rows[idx[i]]
		out.Probabilities[i] = p.Probabilities[idx[i]]
	}
	return out
}
