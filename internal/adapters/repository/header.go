package repository

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Logical columns of the attendance workbook.
const (
	colActivity     = "activity"
	colWeekday      = "weekday"
	colAttended     = "attended"
	colSatisfaction = "satisfaction"
	colParticipant  = "participant"
)

var (
	attendanceAliases = map[string][]string{
		colActivity:     {"atividade", "activity"},
		colWeekday:      {"dia_semana", "weekday"},
		colAttended:     {"presenca", "attended"},
		colSatisfaction: {"satisfacao", "satisfaction"},
		colParticipant:  {"aluna", "nome", "participant", "id_aluna"},
	}
	requiredColumns = []string{colActivity, colWeekday, colAttended, colSatisfaction}

	probabilityAliases = []string{"probability_of_absence", "prob_falta"}
)

// normalizeHeader folds case, strips accents and maps spaces and dashes to
// underscores, so "Presença" and "dia semana" match their aliases.
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(folded, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(folded)
}

// indexColumns maps each logical column to its index in header, or -1.
func indexColumns(header []string, aliases map[string][]string) map[string]int {
	out := make(map[string]int, len(aliases))
	for col := range aliases {
		out[col] = -1
	}
	for i, h := range header {
		name := normalizeHeader(h)
		for col, names := range aliases {
			if out[col] >= 0 {
				continue
			}
			for _, a := range names {
				if name == a {
					out[col] = i
					break
				}
			}
		}
	}
	return out
}

func findColumn(header []string, aliases []string) int {
	return indexColumns(header, map[string][]string{"": aliases})[""]
}

func missingColumns(idx map[string]int) []string {
	var out []string
	for _, col := range requiredColumns {
		if idx[col] < 0 {
			out = append(out, col)
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
