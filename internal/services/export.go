package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
)

// ExportPointsCSV renders one row per user sport with its points and level.
// Uncalibrated sports are written with empty point columns.
func ExportPointsCSV(sports []UserSport) ([]byte, error) {
	rows := append([]UserSport(nil), sports...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sport.Name < rows[j].Sport.Name })

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"sport_id", "sport", "init_points", "actual_points", "level", "updated_at"})
	for _, us := range rows {
		rec := []string{us.Sport.ID, us.Sport.Name, "", "", "", ""}
		if us.Points != nil {
			rec[2] = strconv.Itoa(us.Points.InitPoints)
			rec[3] = strconv.Itoa(us.Points.ActualPoints)
			// hand-entered points may exceed the rating scale; leave level blank then
			if info, err := LevelFor(us.Points.ActualPoints); err == nil {
				rec[4] = strconv.Itoa(info.Level)
			}
			if !us.Points.UpdatedAt.IsZero() {
				rec[5] = us.Points.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportLevelsCSV renders a level table.
func ExportLevelsCSV(t LevelTable) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"level", "min", "max"})
	for _, b := range t {
		if err := w.Write([]string{strconv.Itoa(b.Level), strconv.Itoa(b.Min), strconv.Itoa(b.Max)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
