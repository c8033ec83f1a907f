package sampledata

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/okian/pulso/pkg/logger"
)

const dirPermission = 0o755

type participant struct {
	id       string
	name     string
	prob     float64
	meanRate float64
	classes  [][2]string // activity, weekday

	attended     int
	ratingPoints float64
	recentSeen   int
	recentMissed int
}

type row struct {
	p            *participant
	week         int
	date         string
	activity     string
	weekday      string
	attended     int
	satisfaction int // 0 when not rated
}

// Generate writes the files named in cfg. The output is fully determined by
// cfg.Seed.
func Generate(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Participants < 1 || cfg.Weeks < 1 || cfg.AttendancePath == "" {
		return Report{}, fmt.Errorf("%w: participants=%d weeks=%d attendance_path=%q",
			ErrInvalidConfig, cfg.Participants, cfg.Weeks, cfg.AttendancePath)
	}
	r := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic simulation, not security sensitive

	people, err := newParticipants(r, cfg.Participants)
	if err != nil {
		return Report{}, err
	}

	var rows []row
	for _, p := range people {
		if err := ctx.Err(); err != nil {
			return Report{}, fmt.Errorf("generation cancelled: %w", err)
		}
		rows = append(rows, simulate(r, cfg, p)...)
	}

	rep := Report{Participants: len(people), Rows: len(rows)}
	for _, rw := range rows {
		rep.Attended += rw.attended
	}

	if err := writeWorkbook(cfg.AttendancePath, rows); err != nil {
		return Report{}, err
	}
	rep.Files = append(rep.Files, cfg.AttendancePath)

	if !cfg.SkipRanking && cfg.RankingPath != "" {
		if err := writeCSV(cfg.RankingPath, rankingRecords(people)); err != nil {
			return Report{}, err
		}
		rep.Files = append(rep.Files, cfg.RankingPath)
	}
	if !cfg.SkipPredictions && cfg.PredictionsPath != "" {
		if err := writeCSV(cfg.PredictionsPath, predictionRecords(people)); err != nil {
			return Report{}, err
		}
		rep.Files = append(rep.Files, cfg.PredictionsPath)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Named("sampledata")
	}
	log.Info(ctx, "sample data generated",
		logger.Int("participants", rep.Participants),
		logger.Int("rows", rep.Rows),
		logger.Strings("files", rep.Files),
	)
	return rep, nil
}

func newParticipants(r *rand.Rand, n int) ([]*participant, error) {
	out := make([]*participant, n)
	for i := range out {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return nil, fmt.Errorf("participant id: %w", err)
		}
		p := &participant{
			id:       id.String(),
			name:     firstNames[r.Intn(len(firstNames))] + " " + lastNames[r.Intn(len(lastNames))],
			prob:     minAttendanceProb + r.Float64()*attendanceProbRange,
			meanRate: 3 + r.Float64()*2,
		}
		acts := r.Perm(len(activities))
		days := r.Perm(len(weekdays))
		for c := 0; c < classesPerParticipant; c++ {
			p.classes = append(p.classes, [2]string{activities[acts[c]], weekdays[days[c]]})
		}
		out[i] = p
	}
	return out, nil
}

func simulate(r *rand.Rand, cfg Config, p *participant) []row {
	out := make([]row, 0, cfg.Weeks*len(p.classes))
	for week := 0; week < cfg.Weeks; week++ {
		for _, class := range p.classes {
			day := indexOf(weekdays, class[1])
			rw := row{
				p:        p,
				week:     week + 1,
				date:     cfg.Start.AddDate(0, 0, week*7+day).Format("2006-01-02"),
				activity: class[0],
				weekday:  class[1],
			}
			if r.Float64() < p.prob {
				rw.attended = 1
				p.attended++
				if r.Float64() >= missingRatingProb {
					rating := clamp(math.Round(p.meanRate+r.NormFloat64()*0.8), minSatisfaction, maxSatisfaction)
					p.ratingPoints += rating
					rw.satisfaction = int(rating)
				}
			}
			if week >= cfg.Weeks-recentWeeks {
				p.recentSeen++
				if rw.attended == 0 {
					p.recentMissed++
				}
			}
			out = append(out, rw)
		}
	}
	return out
}

func writeWorkbook(path string, rows []row) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	header := []interface{}{colID, colName, colWeek, colDate, colActivity, colWeekday, colAttended, colSatisfaction}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rw := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var satisfaction interface{}
		if rw.satisfaction > 0 {
			satisfaction = rw.satisfaction
		}
		values := []interface{}{rw.p.id, rw.p.name, rw.week, rw.date, rw.activity, rw.weekday, rw.attended, satisfaction}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func rankingRecords(people []*participant) [][]string {
	sorted := append([]*participant(nil), people...)
	points := func(p *participant) int {
		return p.attended*pointsPerAttendance + int(p.ratingPoints)*pointsPerRatingPoint
	}
	sort.SliceStable(sorted, func(i, j int) bool { return points(sorted[i]) > points(sorted[j]) })

	out := [][]string{{"posicao", colID, colName, "pontos", "presencas", "nivel"}}
	for i, p := range sorted {
		pts := points(p)
		out = append(out, []string{
			strconv.Itoa(i + 1), p.id, p.name, strconv.Itoa(pts), strconv.Itoa(p.attended), level(pts),
		})
	}
	return out
}

func predictionRecords(people []*participant) [][]string {
	out := [][]string{{colID, colName, "taxa_presenca_recente", "prob_falta"}}
	for _, p := range people {
		missed := 0.0
		if p.recentSeen > 0 {
			missed = float64(p.recentMissed) / float64(p.recentSeen)
		}
		// blend the long-run absence rate with the recent one
		prob := 0.5*(1-p.prob) + 0.5*missed
		out = append(out, []string{
			p.id, p.name,
			strconv.FormatFloat(1-missed, 'f', 2, 64),
			strconv.FormatFloat(prob, 'f', 2, 64),
		})
	}
	return out
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func level(points int) string {
	switch {
	case points >= goldPoints:
		return "Ouro"
	case points >= silverPoints:
		return "Prata"
	}
	return "Bronze"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
