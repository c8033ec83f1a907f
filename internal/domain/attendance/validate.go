package attendance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rejection reasons.
const (
	ReasonMissingActivity        = "missing_activity"
	ReasonMissingWeekday         = "missing_weekday"
	ReasonAttendedNotNumeric     = "attended_not_numeric"
	ReasonAttendedOutOfRange     = "attended_out_of_range"
	ReasonSatisfactionNotNumeric = "satisfaction_not_numeric"
	ReasonSatisfactionOutOfRange = "satisfaction_out_of_range"
)

// Policy decides what happens to malformed rows.
type Policy int

const (
	// Reject drops malformed rows and records a Rejection for each.
	Reject Policy = iota
	// Strict aborts the build on the first malformed row.
	Strict
)

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "strict":
		return Strict, nil
	}
	return Reject, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "reject"
}

// RawRow carries the cell text of one spreadsheet row.
type RawRow struct {
	Row          int
	Participant  string
	Activity     string
	Weekday      string
	Attended     string
	Satisfaction string
}

// Builder validates raw rows into a Table.
type Builder struct {
	policy   Policy
	validate *validator.Validate
	records  []Record
	rejected []Rejection
}

// NewBuilder creates a Builder applying policy.
func NewBuilder(policy Policy) *Builder {
	return &Builder{
		policy:   policy,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Add validates raw and appends it. Under Strict a malformed row returns an
// error wrapping ErrMalformedRow; under Reject the row is recorded as rejected.
func (b *Builder) Add(raw RawRow) error {
	rec, rej := b.parse(raw)
	if rej == nil {
		b.records = append(b.records, rec)
		return nil
	}
	if b.policy == Strict {
		return fmt.Errorf("%w: row %d: %s (%s)", ErrMalformedRow, rej.Row, rej.Reason, rej.Detail)
	}
	b.rejected = append(b.rejected, *rej)
	return nil
}

// Table returns the table built so far.
func (b *Builder) Table() *Table {
	return NewTable(b.records, b.rejected)
}

func (b *Builder) parse(raw RawRow) (Record, *Rejection) {
	rec := Record{
		Row:         raw.Row,
		Participant: strings.TrimSpace(raw.Participant),
		Activity:    strings.TrimSpace(raw.Activity),
		Weekday:     strings.TrimSpace(raw.Weekday),
	}
	reject := func(reason, detail string) (Record, *Rejection) {
		return Record{}, &Rejection{Row: raw.Row, Reason: reason, Detail: detail}
	}

	attended, ok := parseAttended(raw.Attended)
	if !ok {
		return reject(ReasonAttendedNotNumeric, raw.Attended)
	}
	rec.Attended = attended

	if s := strings.TrimSpace(raw.Satisfaction); s != "" {
		v, err := parseNumber(s)
		if err != nil {
			return reject(ReasonSatisfactionNotNumeric, raw.Satisfaction)
		}
		rec.Satisfaction = &v
	}

	if err := b.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return reject(reasonFor(verrs[0]), fmt.Sprint(verrs[0].Value()))
		}
		return reject(ReasonAttendedOutOfRange, err.Error())
	}
	return rec, nil
}

func reasonFor(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Activity":
		return ReasonMissingActivity
	case "Weekday":
		return ReasonMissingWeekday
	case "Satisfaction":
		return ReasonSatisfactionOutOfRange
	default:
		return ReasonAttendedOutOfRange
	}
}

// parseAttended accepts 0/1 in numeric or boolean spelling. Integral values
// other than 0/1 parse and are caught by validation; fractions map to -1.
func parseAttended(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true", "verdadeiro":
		return 1, true
	case "false", "falso":
		return 0, true
	}
	f, err := parseNumber(s)
	if err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return -1, true
	}
	return int(f), true
}

// parseNumber accepts "4.5" and the decimal comma form "4,5".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
