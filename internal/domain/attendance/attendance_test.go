package attendance_test

import (
	"errors"
	"testing"

	"github.com/okian/pulso/internal/domain/attendance"
	. "github.com/smartystreets/goconvey/convey"
)

func raw(row int, activity, weekday, attended, satisfaction string) attendance.RawRow {
	return attendance.RawRow{
		Row:          row,
		Participant:  "p",
		Activity:     activity,
		Weekday:      weekday,
		Attended:     attended,
		Satisfaction: satisfaction,
	}
}

func TestBuilderReject(t *testing.T) {
	Convey("Given a builder with the reject policy", t, func() {
		b := attendance.NewBuilder(attendance.Reject)

		Convey("When valid rows are added", func() {
			So(b.Add(raw(2, " Yoga ", "Segunda", "1", "4.5")), ShouldBeNil)
			So(b.Add(raw(3, "Caminhada", "Quarta", "0", "")), ShouldBeNil)
			So(b.Add(raw(4, "Dança", "Sexta", "TRUE", "3,5")), ShouldBeNil)
			table := b.Table()

			Convey("Then they are kept with trimmed labels and parsed values", func() {
				So(table.Len(), ShouldEqual, 3)
				recs := table.Records()
				So(recs[0].Activity, ShouldEqual, "Yoga")
				So(recs[0].Attended, ShouldEqual, 1)
				So(*recs[0].Satisfaction, ShouldEqual, 4.5)
				So(recs[1].Satisfaction, ShouldBeNil)
				So(recs[1].Present(), ShouldBeFalse)
				So(recs[2].Attended, ShouldEqual, 1)
				So(*recs[2].Satisfaction, ShouldEqual, 3.5)
				So(table.Rejected(), ShouldBeEmpty)
			})
		})

		Convey("When malformed rows are added", func() {
			So(b.Add(raw(2, "", "Segunda", "1", "4")), ShouldBeNil)
			So(b.Add(raw(3, "Yoga", " ", "1", "4")), ShouldBeNil)
			So(b.Add(raw(4, "Yoga", "Segunda", "sim", "4")), ShouldBeNil)
			So(b.Add(raw(5, "Yoga", "Segunda", "2", "4")), ShouldBeNil)
			So(b.Add(raw(6, "Yoga", "Segunda", "0.5", "4")), ShouldBeNil)
			So(b.Add(raw(7, "Yoga", "Segunda", "1", "ótimo")), ShouldBeNil)
			So(b.Add(raw(8, "Yoga", "Segunda", "1", "7")), ShouldBeNil)
			So(b.Add(raw(9, "Yoga", "Segunda", "1", "0")), ShouldBeNil)
			So(b.Add(raw(10, "Yoga", "Segunda", "1", "5")), ShouldBeNil)
			table := b.Table()

			Convey("Then only the valid row survives and each rejection has a reason", func() {
				So(table.Len(), ShouldEqual, 1)
				So(table.Records()[0].Row, ShouldEqual, 10)

				rej := table.Rejected()
				So(len(rej), ShouldEqual, 8)
				reasons := make([]string, len(rej))
				for i, r := range rej {
					reasons[i] = r.Reason
				}
				So(reasons, ShouldResemble, []string{
					attendance.ReasonMissingActivity,
					attendance.ReasonMissingWeekday,
					attendance.ReasonAttendedNotNumeric,
					attendance.ReasonAttendedOutOfRange,
					attendance.ReasonAttendedOutOfRange,
					attendance.ReasonSatisfactionNotNumeric,
					attendance.ReasonSatisfactionOutOfRange,
					attendance.ReasonSatisfactionOutOfRange,
				})
				So(rej[0].Row, ShouldEqual, 2)

				counts := table.RejectedByReason()
				So(counts[attendance.ReasonAttendedOutOfRange], ShouldEqual, 2)
				So(counts[attendance.ReasonSatisfactionOutOfRange], ShouldEqual, 2)
			})
		})
	})
}

func TestBuilderStrict(t *testing.T) {
	Convey("Given a builder with the strict policy", t, func() {
		b := attendance.NewBuilder(attendance.Strict)

		Convey("When a malformed row is added", func() {
			So(b.Add(raw(2, "Yoga", "Segunda", "1", "4")), ShouldBeNil)
			err := b.Add(raw(3, "Yoga", "Segunda", "3", "4"))

			Convey("Then the error wraps ErrMalformedRow and names the row", func() {
				So(errors.Is(err, attendance.ErrMalformedRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 3")
				So(err.Error(), ShouldContainSubstring, attendance.ReasonAttendedOutOfRange)
			})
		})
	})
}

func TestParsePolicy(t *testing.T) {
	Convey("Given policy names", t, func() {
		p, err := attendance.ParsePolicy("")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, attendance.Reject)

		p, err = attendance.ParsePolicy(" STRICT ")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, attendance.Strict)
		So(p.String(), ShouldEqual, "strict")

		_, err = attendance.ParsePolicy("coerce")
		So(errors.Is(err, attendance.ErrUnknownPolicy), ShouldBeTrue)
	})
}

func TestTableOptions(t *testing.T) {
	Convey("Given a table with repeated labels", t, func() {
		b := attendance.NewBuilder(attendance.Reject)
		for i, r := range [][2]string{{"Yoga", "Sexta"}, {"Alongamento", "Segunda"}, {"Yoga", "Quarta"}, {"Dança", "Segunda"}} {
			So(b.Add(raw(i+2, r[0], r[1], "1", "")), ShouldBeNil)
		}
		table := b.Table()

		Convey("Then options are distinct and sorted lexicographically", func() {
			So(table.Activities(), ShouldResemble, []string{"Alongamento", "Dança", "Yoga"})
			So(table.Weekdays(), ShouldResemble, []string{"Quarta", "Segunda", "Sexta"})
		})

		Convey("Then mutating returned options does not affect the table", func() {
			acts := table.Activities()
			acts[0] = "x"
			So(table.Activities()[0], ShouldEqual, "Alongamento")
		})
	})

	Convey("Given a nil table", t, func() {
		var table *attendance.Table
		So(table.Len(), ShouldEqual, 0)
		So(table.Records(), ShouldBeNil)
		So(table.Activities(), ShouldBeNil)
	})
}
