package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
	"github.com/hamzakhalil/iman-score-engine/internal/core/workers"
)

// TrackerService is the single orchestration point for goal state and
// scores: it rolls goal sets over at period boundaries, recomputes section
// scores, settles decay, and hands snapshots to the sync worker. All reads
// go through it so decay is applied exactly once per elapsed boundary.
type TrackerService struct {
	store  domain.GoalStore
	worker *workers.SyncWorker
	log    *zap.Logger
}

func NewTrackerService(store domain.GoalStore, worker *workers.SyncWorker, log *zap.Logger) *TrackerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrackerService{
		store:  store,
		worker: worker,
		log:    log,
	}
}

type UpdateGoalInput struct {
	UserID   string
	Section  domain.Section
	Key      string
	Value    int
	Location *time.Location
}

// GoalSets returns every goal set of the user with rollover applied.
func (s *TrackerService) GoalSets(ctx context.Context, userID string, loc *time.Location) ([]*domain.GoalSet, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	var sets []*domain.GoalSet
	for _, section := range domain.Sections {
		for _, period := range []domain.Period{domain.PeriodDaily, domain.PeriodWeekly} {
			if !domain.SectionHasPeriod(section, period) {
				continue
			}
			set, err := s.loadGoalSet(ctx, userID, section, period, loc)
			if err != nil {
				return nil, err
			}
			sets = append(sets, set)
		}
	}
	return sets, nil
}

// UpdateGoal merges one goal update into its set, persists it, and
// recomputes the user's scores.
func (s *TrackerService) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*domain.GoalSet, error) {
	if input.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}

	def, err := domain.LookupGoal(input.Section, input.Key)
	if err != nil {
		return nil, err
	}

	set, err := s.loadGoalSet(ctx, input.UserID, input.Section, def.Period, input.Location)
	if err != nil {
		return nil, err
	}

	if err := set.SetValue(input.Key, input.Value); err != nil {
		return nil, err
	}

	if err := s.store.PutGoalSet(ctx, set); err != nil {
		return nil, err
	}

	if _, err := s.Refresh(ctx, input.UserID, input.Location); err != nil {
		return nil, err
	}

	return set, nil
}

// Refresh recomputes every section score from current goal state, settles
// pending decay, caches the result, and mirrors it in the background. The
// published score of a section is whichever is higher: the score earned in
// the current period, or the decayed carry-over of the cached score.
func (s *TrackerService) Refresh(ctx context.Context, userID string, loc *time.Location) (*domain.Scoreboard, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if loc == nil {
		loc = time.UTC
	}

	now := time.Now()

	snap, err := s.store.GetScoreSnapshot(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			s.log.Warn("score snapshot unreadable, starting fresh",
				zap.String("user_id", userID), zap.Error(err))
		}
		snap = domain.NewScoreSnapshot(userID)
	}
	if snap.Sections == nil {
		snap.Sections = make(map[domain.Section]domain.SectionState)
	}

	sections := make(map[domain.Section]float64, len(domain.Sections))
	var syncSnaps []*domain.SyncSnapshot

	for _, section := range domain.Sections {
		values, err := s.sectionValues(ctx, userID, section, loc)
		if err != nil {
			return nil, err
		}

		fresh := domain.SectionScore(section, values)

		st, _ := domain.ApplyDecay(snap.Sections[section], domain.PeriodDaily, now, loc)
		if fresh > st.Score {
			st.Score = fresh
		}
		snap.Sections[section] = st
		sections[section] = st.Score

		if goals, err := json.Marshal(values); err == nil {
			syncSnaps = append(syncSnaps,
				domain.NewSyncSnapshot(userID, section, domain.DayStart(now, loc), st.Score, goals))
		}
	}

	snap.ComputedAt = now.UTC()
	if err := s.store.PutScoreSnapshot(ctx, snap); err != nil {
		// The snapshot only anchors decay; serving the freshly computed
		// scores beats failing the read.
		s.log.Warn("failed to cache score snapshot",
			zap.String("user_id", userID), zap.Error(err))
	}

	if s.worker != nil {
		s.worker.Enqueue(workers.SyncJob{UserID: userID, Snapshots: syncSnaps})
	}

	return &domain.Scoreboard{
		UserID:     userID,
		Sections:   sections,
		Overall:    domain.OverallScore(sections),
		ComputedAt: snap.ComputedAt,
	}, nil
}

// SectionScores returns the settled per-section scores.
func (s *TrackerService) SectionScores(ctx context.Context, userID string, loc *time.Location) (map[domain.Section]float64, error) {
	board, err := s.Refresh(ctx, userID, loc)
	if err != nil {
		return nil, err
	}
	return board.Sections, nil
}

// OverallScore returns the settled weighted overall score.
func (s *TrackerService) OverallScore(ctx context.Context, userID string, loc *time.Location) (float64, error) {
	board, err := s.Refresh(ctx, userID, loc)
	if err != nil {
		return 0, err
	}
	return board.Overall, nil
}

// loadGoalSet reads a set and performs the rollover check: a stored period
// marker that no longer matches the current day/week resets the set to
// defaults before it is returned. Unreadable state substitutes defaults.
func (s *TrackerService) loadGoalSet(ctx context.Context, userID string, section domain.Section, period domain.Period, loc *time.Location) (*domain.GoalSet, error) {
	if loc == nil {
		loc = time.UTC
	}
	marker := domain.Marker(period, time.Now(), loc)

	set, err := s.store.GetGoalSet(ctx, userID, section, period)
	if err != nil {
		if !errors.Is(err, domain.ErrGoalSetNotFound) {
			s.log.Warn("goal set unreadable, substituting defaults",
				zap.String("user_id", userID),
				zap.String("section", string(section)),
				zap.Error(err))
		}

		set, err = domain.NewGoalSet(userID, section, period, marker)
		if err != nil {
			return nil, err
		}
		if err := s.store.PutGoalSet(ctx, set); err != nil {
			return nil, err
		}
		return set, nil
	}

	if set.PeriodMarker != marker {
		set.Reset(marker)
		if err := s.store.PutGoalSet(ctx, set); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// sectionValues merges the daily and weekly goal values of a section.
func (s *TrackerService) sectionValues(ctx context.Context, userID string, section domain.Section, loc *time.Location) (map[string]int, error) {
	values := make(map[string]int)
	for _, period := range []domain.Period{domain.PeriodDaily, domain.PeriodWeekly} {
		if !domain.SectionHasPeriod(section, period) {
			continue
		}
		set, err := s.loadGoalSet(ctx, userID, section, period, loc)
		if err != nil {
			return nil, err
		}
		for k, v := range set.Values {
			values[k] = v
		}
	}
	return values, nil
}
