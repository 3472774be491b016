package domain

import "time"

// DecayPenalty is the percentage-point decrement charged per fully elapsed
// boundary with unmet goals.
const DecayPenalty = 10.0

type DecayState string

const (
	// DecayFresh: the section was settled within the current period.
	DecayFresh DecayState = "fresh"
	// DecayStale: one or more boundaries elapsed since the last settle;
	// a penalty is pending.
	DecayStale DecayState = "stale"
	// DecayDecayed: the pending penalty was applied on this read.
	DecayDecayed DecayState = "decayed"
)

// SectionState is the cached score of one section together with the start of
// the period it was last settled in. It is what decay erodes between reads.
type SectionState struct {
	Score          float64   `json:"score"`
	DecayedThrough time.Time `json:"decayed_through"`
}

// ScoreSnapshot is the persisted decay state for all sections of a user.
type ScoreSnapshot struct {
	UserID     string                   `json:"user_id"`
	Sections   map[Section]SectionState `json:"sections"`
	ComputedAt time.Time                `json:"computed_at"`
}

func NewScoreSnapshot(userID string) *ScoreSnapshot {
	return &ScoreSnapshot{
		UserID:   userID,
		Sections: make(map[Section]SectionState),
	}
}

// Classify reports whether a section state has decay pending. A zero
// DecayedThrough means no state was ever persisted; that is Fresh, not Stale,
// so a brand-new user is never charged for history they do not have.
func Classify(st SectionState, p Period, now time.Time, loc *time.Location) DecayState {
	if st.DecayedThrough.IsZero() {
		return DecayFresh
	}
	if st.DecayedThrough.In(loc).Before(PeriodStart(p, now, loc)) {
		return DecayStale
	}
	return DecayFresh
}

// ApplyDecay settles a section state against the current period. A Stale
// state is charged DecayPenalty once per elapsed boundary, clamped at zero,
// and its DecayedThrough marker advances to the current period start so a
// second call within the same period is a no-op. Missing state fails open to
// a zero-score Fresh state anchored at the current period.
func ApplyDecay(st SectionState, p Period, now time.Time, loc *time.Location) (SectionState, DecayState) {
	currentStart := PeriodStart(p, now, loc)

	if st.DecayedThrough.IsZero() {
		return SectionState{Score: ClampScore(st.Score), DecayedThrough: currentStart}, DecayFresh
	}

	if Classify(st, p, now, loc) == DecayFresh {
		st.Score = ClampScore(st.Score)
		return st, DecayFresh
	}

	missed := ElapsedBoundaries(p, st.DecayedThrough, now, loc)
	st.Score = ClampScore(st.Score - DecayPenalty*float64(missed))
	st.DecayedThrough = currentStart
	return st, DecayDecayed
}
