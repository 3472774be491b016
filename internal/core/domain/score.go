package domain

import "time"

// SectionScore computes the 0-100 completion score of a section from merged
// goal values. Missing keys count as zero completion; a target of zero is
// treated as already satisfied.
func SectionScore(section Section, values map[string]int) float64 {
	defs := Catalog[section]
	if len(defs) == 0 {
		return 0
	}

	var score float64
	for _, d := range defs {
		score += d.Weight * CompletionRatio(d, values[d.Key])
	}
	return ClampScore(score * 100)
}

// CompletionRatio returns the per-goal completion in [0, 1].
func CompletionRatio(def GoalDef, current int) float64 {
	if def.Target <= 0 {
		return 1
	}
	if current < 0 {
		current = 0
	}

	if def.Kind == GoalKindBinary {
		if current >= def.Target {
			return 1
		}
		return 0
	}

	ratio := float64(current) / float64(def.Target)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// OverallScore is the equal-weighted mean of the section scores.
func OverallScore(sections map[Section]float64) float64 {
	if len(sections) == 0 {
		return 0
	}

	var sum float64
	for _, s := range Sections {
		sum += sections[s]
	}
	return ClampScore(sum / float64(len(Sections)))
}

func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Scoreboard is the published view of a user's scores.
type Scoreboard struct {
	UserID     string              `json:"user_id"`
	Sections   map[Section]float64 `json:"sections"`
	Overall    float64             `json:"overall"`
	ComputedAt time.Time           `json:"computed_at"`
}
