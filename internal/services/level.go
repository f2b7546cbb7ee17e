package services

import (
	"fmt"
	"sort"
)

// LevelBand maps a closed rating interval [Min, Max] to a level.
type LevelBand struct {
	Level int `json:"nivel" yaml:"nivel"`
	Min   int `json:"min" yaml:"min"`
	Max   int `json:"max" yaml:"max"`
}

// LevelTable is ordered by Min.
type LevelTable []LevelBand

var defaultLevels = LevelTable{
	{Level: 1, Min: 0, Max: 80},
	{Level: 2, Min: 81, Max: 170},
	{Level: 3, Min: 171, Max: 260},
	{Level: 4, Min: 261, Max: 420},
	{Level: 5, Min: 421, Max: 600},
	{Level: 6, Min: 601, Max: 780},
	{Level: 7, Min: 781, Max: 930},
	{Level: 8, Min: 931, Max: 1060},
	{Level: 9, Min: 1061, Max: 1180},
	{Level: 10, Min: 1181, Max: 1300},
	{Level: 11, Min: 1301, Max: 1420},
	{Level: 12, Min: 1421, Max: 1540},
	{Level: 13, Min: 1541, Max: 1640},
	{Level: 14, Min: 1641, Max: 1720},
	{Level: 15, Min: 1721, Max: 1790},
	{Level: 16, Min: 1791, Max: 1850},
	{Level: 17, Min: 1851, Max: 1890},
	{Level: 18, Min: 1891, Max: 1930},
	{Level: 19, Min: 1931, Max: 1970},
	{Level: 20, Min: 1971, Max: 2000},
}

// Levels returns a copy of the built-in level table.
func Levels() LevelTable {
	return append(LevelTable(nil), defaultLevels...)
}

// Validate checks that the bands are sorted, contiguous and cover [0, MaxRating].
func (t LevelTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("level table is empty")
	}
	if !sort.SliceIsSorted(t, func(i, j int) bool { return t[i].Min < t[j].Min }) {
		return fmt.Errorf("level table must be ordered by min")
	}
	if t[0].Min != 0 {
		return fmt.Errorf("level table starts at %d, want 0", t[0].Min)
	}
	for i, b := range t {
		if b.Min > b.Max {
			return fmt.Errorf("level %d: min %d > max %d", b.Level, b.Min, b.Max)
		}
		if i > 0 && b.Min != t[i-1].Max+1 {
			return fmt.Errorf("level %d: gap or overlap after %d", b.Level, t[i-1].Max)
		}
	}
	if last := t[len(t)-1]; last.Max != MaxRating {
		return fmt.Errorf("level table ends at %d, want %d", last.Max, MaxRating)
	}
	return nil
}

func (t LevelTable) lookup(rating int) (LevelBand, bool) {
	for _, b := range t {
		if rating >= b.Min && rating <= b.Max {
			return b, true
		}
	}
	return LevelBand{}, false
}

func (t LevelTable) band(level int) (LevelBand, bool) {
	for _, b := range t {
		if b.Level == level {
			return b, true
		}
	}
	return LevelBand{}, false
}

// LevelInfo is the user-facing description of a rating.
type LevelInfo struct {
	Level       int    `json:"nivel"`
	Rating      int    `json:"puntos"`
	Min         int    `json:"rangoMin"`
	Max         int    `json:"rangoMax"`
	Description string `json:"descripcion"`
	// Fallback is set when no band matched and level 1 was assigned.
	Fallback bool `json:"fallback,omitempty"`
}

// LevelFor resolves a rating against the built-in table.
func LevelFor(rating int) (LevelInfo, error) {
	return defaultLevels.LevelFor(rating)
}

// LevelFor rejects ratings outside [0, MaxRating]. A rating inside the
// interval that matches no band resolves to level 1 with Fallback set.
func (t LevelTable) LevelFor(rating int) (LevelInfo, error) {
	if rating < 0 || rating > MaxRating {
		return LevelInfo{}, &OutOfRangeError{Rating: rating}
	}
	b, ok := t.lookup(rating)
	fallback := false
	if !ok {
		fallback = true
		b, ok = t.band(1)
		if !ok {
			b = LevelBand{Level: 1}
		}
	}
	return LevelInfo{
		Level:       b.Level,
		Rating:      rating,
		Min:         b.Min,
		Max:         b.Max,
		Description: fmt.Sprintf("Nivel %d (%d-%d puntos)", b.Level, b.Min, b.Max),
		Fallback:    fallback,
	}, nil
}

// RatingResult is derived from an answer sequence and never stored as such;
// only Rating is persisted, as the sport's initial points.
type RatingResult struct {
	RawScore int       `json:"rawScore"`
	Rating   int       `json:"rating"`
	Level    LevelInfo `json:"level"`
}

// RateScore turns a raw questionnaire score into a rating and level.
func RateScore(raw int) (RatingResult, error) {
	rating := ToRating(raw)
	info, err := LevelFor(rating)
	if err != nil {
		return RatingResult{}, err
	}
	return RatingResult{RawScore: raw, Rating: rating, Level: info}, nil
}
