package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidUserID  = errors.New("invalid user id")
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownGoal    = errors.New("unknown goal key")
)

type Section string

const (
	SectionIbadah Section = "ibadah"
	SectionIlm    Section = "ilm"
	SectionAmanah Section = "amanah"
)

var Sections = []Section{SectionIbadah, SectionIlm, SectionAmanah}

func ParseSection(input string) (Section, error) {
	s := Section(strings.TrimSpace(strings.ToLower(input)))
	switch s {
	case SectionIbadah, SectionIlm, SectionAmanah:
		return s, nil
	default:
		return "", ErrUnknownSection
	}
}

type GoalKind string

const (
	GoalKindBinary     GoalKind = "binary"
	GoalKindCumulative GoalKind = "cumulative"
)

type Period string

const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
)

// GoalDef describes one trackable goal: what it counts, how often it resets,
// and how much it weighs inside its section score.
type GoalDef struct {
	Key    string   `json:"key"`
	Kind   GoalKind `json:"kind"`
	Period Period   `json:"period"`
	Target int      `json:"target"`
	Weight float64  `json:"weight"`
	Unit   string   `json:"unit,omitempty"`
}

// Catalog is the canonical goal weighting. Weights sum to 1.0 per section.
var Catalog = map[Section][]GoalDef{
	SectionIbadah: {
		{Key: "fajr", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.20},
		{Key: "dhuhr", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.20},
		{Key: "asr", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.20},
		{Key: "maghrib", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.20},
		{Key: "isha", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.20},
	},
	SectionIlm: {
		{Key: "quran_pages", Kind: GoalKindCumulative, Period: PeriodDaily, Target: 5, Weight: 0.50, Unit: "pages"},
		{Key: "lecture_minutes", Kind: GoalKindCumulative, Period: PeriodDaily, Target: 30, Weight: 0.30, Unit: "minutes"},
		{Key: "dhikr_count", Kind: GoalKindCumulative, Period: PeriodDaily, Target: 100, Weight: 0.20, Unit: "count"},
	},
	SectionAmanah: {
		{Key: "journal_entry", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.40},
		{Key: "mood_checkin", Kind: GoalKindBinary, Period: PeriodDaily, Target: 1, Weight: 0.20},
		{Key: "sadaqah", Kind: GoalKindBinary, Period: PeriodWeekly, Target: 1, Weight: 0.40},
	},
}

// SectionDefs returns the goal definitions of a section, optionally filtered
// by period. An empty period returns every definition.
func SectionDefs(section Section, period Period) []GoalDef {
	defs := Catalog[section]
	if period == "" {
		return defs
	}

	var filtered []GoalDef
	for _, d := range defs {
		if d.Period == period {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// LookupGoal finds the definition for a goal key within a section.
func LookupGoal(section Section, key string) (GoalDef, error) {
	for _, d := range Catalog[section] {
		if d.Key == key {
			return d, nil
		}
	}
	return GoalDef{}, ErrUnknownGoal
}

// SectionHasPeriod reports whether a section defines any goal for the period.
func SectionHasPeriod(section Section, period Period) bool {
	return len(SectionDefs(section, period)) > 0
}

// GoalSet holds the current completion values for one section and period.
// Binary goals store 0 or 1; cumulative goals store the running count.
// PeriodMarker records which day/week the values belong to; a marker that no
// longer matches the current period means the set must be reset to defaults.
type GoalSet struct {
	UserID       string         `json:"user_id"`
	Section      Section        `json:"section"`
	Period       Period         `json:"period"`
	PeriodMarker string         `json:"period_marker"`
	Values       map[string]int `json:"values"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewGoalSet creates a zero-completion goal set for a section and period.
func NewGoalSet(userID string, section Section, period Period, marker string) (*GoalSet, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}
	if _, ok := Catalog[section]; !ok {
		return nil, ErrUnknownSection
	}

	values := make(map[string]int)
	for _, d := range SectionDefs(section, period) {
		values[d.Key] = 0
	}

	return &GoalSet{
		UserID:       userID,
		Section:      section,
		Period:       period,
		PeriodMarker: marker,
		Values:       values,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// SetValue merges one goal update into the set. Negative values clamp to
// zero and binary goals clamp to 0/1; malformed input is corrected rather
// than rejected.
func (g *GoalSet) SetValue(key string, value int) error {
	def, err := LookupGoal(g.Section, key)
	if err != nil {
		return err
	}
	if def.Period != g.Period {
		return ErrUnknownGoal
	}

	if value < 0 {
		value = 0
	}
	if def.Kind == GoalKindBinary && value > 1 {
		value = 1
	}

	if g.Values == nil {
		g.Values = make(map[string]int)
	}
	g.Values[key] = value
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Reset overwrites the set with zero-completion defaults for a new period.
func (g *GoalSet) Reset(marker string) {
	g.PeriodMarker = marker
	g.Values = make(map[string]int)
	for _, d := range SectionDefs(g.Section, g.Period) {
		g.Values[d.Key] = 0
	}
	g.UpdatedAt = time.Now().UTC()
}
