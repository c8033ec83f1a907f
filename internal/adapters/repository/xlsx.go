package repository

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/pulso/internal/domain/attendance"
)

// headerScanRows bounds how far down the sheet the header row is searched.
const headerScanRows = 10

func readAttendance(path, sheet string, policy attendance.Policy) (*attendance.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrAttendanceMalformed, path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrAttendanceMalformed, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q of %s: %v", ErrAttendanceMalformed, sheet, path, err)
	}

	headerAt, idx := -1, map[string]int(nil)
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		candidate := indexColumns(rows[i], attendanceAliases)
		if candidate[colActivity] >= 0 && candidate[colWeekday] >= 0 {
			headerAt, idx = i, candidate
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("%w: %s: no header row with activity and weekday columns", ErrAttendanceMalformed, path)
	}
	if missing := missingColumns(idx); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing columns %s", ErrAttendanceMalformed, path, strings.Join(missing, ", "))
	}

	b := attendance.NewBuilder(policy)
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		err := b.Add(attendance.RawRow{
			Row:          i + 1,
			Participant:  cell(row, idx[colParticipant]),
			Activity:     cell(row, idx[colActivity]),
			Weekday:      cell(row, idx[colWeekday]),
			Attended:     cell(row, idx[colAttended]),
			Satisfaction: cell(row, idx[colSatisfaction]),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAttendanceMalformed, path, err)
		}
	}
	return b.Table(), nil
}
