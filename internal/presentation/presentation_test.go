package presentation_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pulso/internal/domain/aggregate"
	"github.com/okian/pulso/internal/domain/attendance"
	"github.com/okian/pulso/internal/domain/filter"
	"github.com/okian/pulso/internal/domain/types"
	"github.com/okian/pulso/internal/presentation"
)

func rec(activity, weekday string, attended int) attendance.Record {
	return attendance.Record{Activity: activity, Weekday: weekday, Attended: attended}
}

func input(records []attendance.Record) presentation.Input {
	return presentation.Input{
		Summary:     aggregate.Summarize(records),
		ByWeekday:   aggregate.ByWeekday(records),
		ByActivity:  aggregate.ByActivity(records),
		Ranking:     types.Absent[types.Table](types.Missing, "ranking.csv not found"),
		Predictions: types.Absent[types.PredictionTable](types.Malformed, "bad quote"),
	}
}

func TestBuild(t *testing.T) {
	Convey("Given a builder", t, func() {
		b, err := presentation.NewBuilder(presentation.WithNoDataLabel("n/a"), presentation.WithTopN(2))
		So(err, ShouldBeNil)

		Convey("When building a view of three rows", func() {
			four := 4.2
			records := []attendance.Record{rec("A", "Mon", 1), rec("A", "Mon", 0), rec("B", "Tue", 1)}
			records[0].Satisfaction = &four
			v := b.Build(input(records))

			Convey("Then metric cards are formatted", func() {
				So(v.Cards[0].Display, ShouldEqual, "66.7%")
				So(v.Cards[1].Display, ShouldEqual, "4.20/5")
				So(v.Cards[2].Display, ShouldEqual, "2")
				So(*v.Cards[2].Value, ShouldEqual, 2)
				So(v.NoData, ShouldBeEmpty)
			})

			Convey("Then chart bars carry two-decimal labels", func() {
				So(v.Charts[0].Key, ShouldEqual, presentation.ChartByWeekday)
				So(v.Charts[0].Bars[0], ShouldResemble, presentation.Bar{Label: "Mon", Value: 0.5, Text: "0.50", Count: 2})
				So(v.Charts[1].Bars[1].Text, ShouldEqual, "1.00")
			})

			Convey("Then absent datasets render placeholders", func() {
				So(v.Ranking.Table, ShouldBeNil)
				So(v.Ranking.Status, ShouldEqual, types.Missing)
				So(string(v.Ranking.Placeholder), ShouldContainSubstring, "02_gamificacao_e_visualizacoes.ipynb")
				So(v.Predictions.Status, ShouldEqual, types.Malformed)
				So(string(v.Predictions.Placeholder), ShouldContainSubstring, "03_modelo_preditivo.ipynb")
				So(v.Predictions.Reason, ShouldEqual, "bad quote")
			})
		})

		Convey("When building a view of no rows", func() {
			v := b.Build(input(nil))

			Convey("Then every card is in the no-data state", func() {
				for _, c := range v.Cards {
					So(c.Display, ShouldEqual, "n/a")
					So(c.Value, ShouldBeNil)
				}
				So(v.NoData, ShouldNotBeEmpty)
				So(v.Charts[0].Bars, ShouldBeEmpty)
			})

			Convey("Then an empty filter asks for a selection", func() {
				So(string(v.NoData), ShouldEqual, string(b.Copy(presentation.CopyNoSelection)))
			})

			Convey("Then the JSON has no NaN and null values", func() {
				out, err := json.Marshal(v)
				So(err, ShouldBeNil)
				So(string(out), ShouldContainSubstring, `"value":null`)
				So(string(out), ShouldNotContainSubstring, "NaN")
			})
		})

		Convey("When a non-empty selection matches no rows", func() {
			in := input(nil)
			in.Selection = filter.Selection{Activities: []string{"Yoga"}, Weekdays: []string{"Segunda"}}
			v := b.Build(in)

			Convey("Then the notice says nothing matched without asking for a selection", func() {
				notice := string(v.NoData)
				So(notice, ShouldContainSubstring, "No attendance records match the current selection.")
				So(notice, ShouldNotContainSubstring, "Select at least one")
			})
		})

		Convey("When datasets are available", func() {
			in := input(nil)
			in.Ranking = types.Some(types.Table{Columns: []string{"nome"}, Rows: [][]string{{"Ana"}, {"Bia"}, {"Cida"}}})
			in.Predictions = types.Some(types.PredictionTable{
				Table:             types.Table{Columns: []string{"nome", "prob_falta"}, Rows: [][]string{{"Ana", "0.1"}, {"Bia", ""}, {"Cida", "0.8"}}},
				ProbabilityColumn: 1,
				Probabilities:     []float64{0.1, math.NaN(), 0.8},
			})
			v := b.Build(in)

			Convey("Then the ranking keeps file order and the predictions are sorted", func() {
				So(v.Ranking.Table.Rows, ShouldResemble, [][]string{{"Ana"}, {"Bia"}})
				So(v.Predictions.Table.Rows, ShouldResemble, [][]string{{"Cida", "0.8"}, {"Ana", "0.1"}})
				So(string(v.Predictions.Note), ShouldContainSubstring, "<strong>Suggested actions:</strong>")
				So(v.Predictions.Placeholder, ShouldBeEmpty)
			})
		})

		Convey("When rows were rejected at load time", func() {
			in := input(nil)
			in.Rejected = map[string]int{attendance.ReasonAttendedOutOfRange: 2, attendance.ReasonMissingWeekday: 1}
			v := b.Build(in)

			So(v.Quality.Rejected, ShouldEqual, 3)
			So(v.Quality.Note, ShouldStartWith, "3 rows were excluded")
		})

		Convey("Then the selection is echoed", func() {
			in := input(nil)
			in.Selection = filter.Selection{Activities: []string{"A"}, Weekdays: []string{}}
			So(b.Build(in).Selection, ShouldResemble, in.Selection)
		})
	})
}

func TestCopy(t *testing.T) {
	Convey("Given the embedded copy", t, func() {
		b, err := presentation.NewBuilder()
		So(err, ShouldBeNil)

		Convey("Then markdown is rendered with hard wraps", func() {
			footer := string(b.Copy(presentation.CopyFooter))
			So(footer, ShouldContainSubstring, "<strong>Gustavo Mendes</strong>")
			So(footer, ShouldContainSubstring, "<br>")
		})

		Convey("Then every block exists", func() {
			for _, name := range []string{
				presentation.CopyIntro, presentation.CopyRankingMissing, presentation.CopyPredictionsMissing,
				presentation.CopyPredictionsLead, presentation.CopySuggestedAction, presentation.CopyNoData,
				presentation.CopyNoSelection,
			} {
				So(strings.TrimSpace(string(b.Copy(name))), ShouldStartWith, "<p>")
			}
		})
	})
}
