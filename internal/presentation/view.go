// Package presentation turns aggregates and the optional datasets into the
// view model served to the dashboard page.
package presentation

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/okian/pulso/internal/domain/aggregate"
	"github.com/okian/pulso/internal/domain/filter"
	"github.com/okian/pulso/internal/domain/types"
)

// Metric card keys.
const (
	CardAttendanceRate   = "attendance_rate"
	CardMeanSatisfaction = "mean_satisfaction"
	CardTotalAttendances = "total_attendances"
)

// Chart keys.
const (
	ChartByWeekday  = "attendance_by_weekday"
	ChartByActivity = "attendance_by_activity"
)

// Card is one labelled scalar metric. Value is nil in the no-data state.
type Card struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Display string   `json:"display"`
	Value   *float64 `json:"value"`
}

// Bar is one category of a bar chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
	Count int     `json:"count"`
}

// Chart is a bar chart of mean attendance per category.
type Chart struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	Bars   []Bar  `json:"bars"`
}

// Section is a tabular listing that may be replaced by a placeholder.
type Section struct {
	Key    string             `json:"key"`
	Title  string             `json:"title"`
	Status types.Availability `json:"status"`
	// Reason explains why the dataset is not available.
	Reason string `json:"reason,omitempty"`
	// Table is nil when the dataset is not available.
	Table       *types.Table  `json:"table"`
	Lead        template.HTML `json:"lead,omitempty"`
	Note        template.HTML `json:"note,omitempty"`
	Placeholder template.HTML `json:"placeholder,omitempty"`
}

// Quality reports rows dropped while loading the attendance dataset.
type Quality struct {
	Rejected int            `json:"rejected"`
	Reasons  map[string]int `json:"reasons,omitempty"`
	Note     string         `json:"note,omitempty"`
}

// View is everything the dashboard page renders.
type View struct {
	Title       string           `json:"title"`
	Intro       template.HTML    `json:"intro"`
	Selection   filter.Selection `json:"selection"`
	Rows        int              `json:"rows"`
	NoData      template.HTML    `json:"no_data,omitempty"`
	Cards       []Card           `json:"cards"`
	Charts      []Chart          `json:"charts"`
	Ranking     Section          `json:"ranking"`
	Predictions Section          `json:"predictions"`
	Quality     Quality          `json:"quality"`
	Footer      template.HTML    `json:"footer"`
}

// Input gathers the results of one recomputation.
type Input struct {
	Selection   filter.Selection
	Summary     aggregate.Summary
	ByWeekday   []aggregate.Group
	ByActivity  []aggregate.Group
	Ranking     types.Optional[types.Table]
	Predictions types.Optional[types.PredictionTable]
	Rejected    map[string]int
}

// Builder renders views. It is safe for concurrent use once created.
type Builder struct {
	title       string
	noDataLabel string
	topN        int
	blocks      map[string]template.HTML
}

// NewBuilder renders the embedded copy and returns a Builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		title:       "Physical Activity Program for Older Adults",
		noDataLabel: "—",
		topN:        10,
	}
	for _, opt := range opts {
		opt(b)
	}
	c, err := renderCopy()
	if err != nil {
		return nil, err
	}
	b.blocks = c
	return b, nil
}

// Copy returns a rendered copy block by name.
func (b *Builder) Copy(name string) template.HTML {
	return b.blocks[name]
}

// Build assembles the full view.
func (b *Builder) Build(in Input) View {
	v := View{
		Title:     b.title,
		Intro:     b.blocks[CopyIntro],
		Selection: in.Selection,
		Rows:      in.Summary.Rows,
		Cards: []Card{
			b.card(CardAttendanceRate, "Average attendance rate", in.Summary.AttendanceRate, func(x float64) string {
				return fmt.Sprintf("%.1f%%", x)
			}),
			b.card(CardMeanSatisfaction, "Average satisfaction", in.Summary.MeanSatisfaction, func(x float64) string {
				return fmt.Sprintf("%.2f/5", x)
			}),
			b.card(CardTotalAttendances, "Total attendances", in.Summary.TotalAttendances, func(x float64) string {
				return strconv.Itoa(int(x))
			}),
		},
		Charts: []Chart{
			chart(ChartByWeekday, "Average attendance by weekday", "Weekday", in.ByWeekday),
			chart(ChartByActivity, "Average attendance by activity", "Activity", in.ByActivity),
		},
		Ranking:     b.RankingSection(in.Ranking),
		Predictions: b.PredictionsSection(in.Predictions),
		Quality:     quality(in.Rejected),
		Footer:      b.blocks[CopyFooter],
	}
	if in.Summary.Empty() {
		v.NoData = b.blocks[CopyNoData]
		if in.Selection.Empty() {
			v.NoData = b.blocks[CopyNoSelection]
		}
	}
	return v
}

// RankingSection shows the first topN ranking rows in file order.
func (b *Builder) RankingSection(r types.Optional[types.Table]) Section {
	s := Section{Key: "ranking", Title: "Gamification ranking", Status: r.Status, Reason: r.Reason}
	if !r.Ok() {
		s.Placeholder = b.blocks[CopyRankingMissing]
		return s
	}
	head := r.Value.Head(b.topN)
	s.Table = &head
	return s
}

// PredictionsSection shows the topN rows by absence probability.
func (b *Builder) PredictionsSection(p types.Optional[types.PredictionTable]) Section {
	s := Section{Key: "predictions", Title: "Absence predictions", Status: p.Status, Reason: p.Reason}
	if !p.Ok() {
		s.Placeholder = b.blocks[CopyPredictionsMissing]
		return s
	}
	top := p.Value.Top(b.topN).Table
	s.Table = &top
	s.Lead = b.blocks[CopyPredictionsLead]
	s.Note = b.blocks[CopySuggestedAction]
	return s
}

func (b *Builder) card(key, label string, m aggregate.Metric, format func(float64) string) Card {
	c := Card{Key: key, Label: label, Display: b.noDataLabel}
	if m.Valid {
		v := m.Value
		c.Value = &v
		c.Display = format(v)
	}
	return c
}

func chart(key, title, xLabel string, groups []aggregate.Group) Chart {
	bars := make([]Bar, len(groups))
	for i, g := range groups {
		bars[i] = Bar{Label: g.Label, Value: g.Mean, Text: fmt.Sprintf("%.2f", g.Mean), Count: g.Count}
	}
	return Chart{Key: key, Title: title, XLabel: xLabel, Bars: bars}
}

func quality(reasons map[string]int) Quality {
	q := Quality{}
	for _, n := range reasons {
		q.Rejected += n
	}
	if q.Rejected == 0 {
		return q
	}
	q.Reasons = reasons
	noun := "rows were"
	if q.Rejected == 1 {
		noun = "row was"
	}
	q.Note = fmt.Sprintf("%d %s excluded at load time because of invalid values.", q.Rejected, noun)
	return q
}
