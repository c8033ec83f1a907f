package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/pulso/internal/domain/types"
)

func readTable(path string) types.Optional[types.Table] {
	if path == "" {
		return types.Absent[types.Table](types.Missing, "no path configured")
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Absent[types.Table](types.Missing, fmt.Sprintf("%s not found", path))
	}
	if err != nil {
		return types.Absent[types.Table](types.Malformed, err.Error())
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return types.Absent[types.Table](types.Malformed, fmt.Sprintf("%s: %v", path, err))
	}
	if len(records) == 0 {
		return types.Absent[types.Table](types.Malformed, fmt.Sprintf("%s: empty file", path))
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	rows := records[1:]
	for i, row := range rows {
		switch {
		case len(row) > len(header):
			return types.Absent[types.Table](types.Malformed,
				fmt.Sprintf("%s: line %d has %d fields, header has %d", path, i+2, len(row), len(header)))
		case len(row) < len(header):
			// Short rows are padded with blank cells.
			rows[i] = append(row, make([]string, len(header)-len(row))...)
		}
	}
	return types.Some(types.Table{Columns: header, Rows: rows})
}

func readPredictions(path string) types.Optional[types.PredictionTable] {
	t := readTable(path)
	if !t.Ok() {
		return types.Absent[types.PredictionTable](t.Status, t.Reason)
	}

	col := findColumn(t.Value.Columns, probabilityAliases)
	if col < 0 {
		return types.Absent[types.PredictionTable](types.Malformed,
			fmt.Sprintf("%s: missing column %s", path, strings.Join(probabilityAliases, " or ")))
	}

	probs := make([]float64, len(t.Value.Rows))
	for i, row := range t.Value.Rows {
		probs[i] = parseProbability(cell(row, col))
	}
	return types.Some(types.PredictionTable{Table: t.Value, ProbabilityColumn: col, Probabilities: probs})
}

// parseProbability returns NaN for blank or unparseable cells.
func parseProbability(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
