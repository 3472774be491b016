package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

func TestInMemoryGoalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Goal set round trip", func(t *testing.T) {
		s := NewInMemoryGoalStore()

		set, err := domain.NewGoalSet("user-1", domain.SectionIlm, domain.PeriodDaily, "2026-08-30")
		require.NoError(t, err)
		require.NoError(t, set.SetValue("quran_pages", 3))
		require.NoError(t, s.PutGoalSet(ctx, set))

		got, err := s.GetGoalSet(ctx, "user-1", domain.SectionIlm, domain.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Values["quran_pages"])
	})

	t.Run("Missing entries report not found", func(t *testing.T) {
		s := NewInMemoryGoalStore()

		_, err := s.GetGoalSet(ctx, "user-1", domain.SectionIlm, domain.PeriodDaily)
		assert.ErrorIs(t, err, domain.ErrGoalSetNotFound)

		_, err = s.GetScoreSnapshot(ctx, "user-1")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Stored goal set is isolated from caller mutations", func(t *testing.T) {
		s := NewInMemoryGoalStore()

		set, err := domain.NewGoalSet("user-1", domain.SectionIlm, domain.PeriodDaily, "2026-08-30")
		require.NoError(t, err)
		require.NoError(t, s.PutGoalSet(ctx, set))

		set.Values["quran_pages"] = 99

		got, err := s.GetGoalSet(ctx, "user-1", domain.SectionIlm, domain.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Values["quran_pages"])

		got.Values["quran_pages"] = 42
		again, err := s.GetGoalSet(ctx, "user-1", domain.SectionIlm, domain.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Values["quran_pages"])
	})

	t.Run("Goal sets are keyed per section and period", func(t *testing.T) {
		s := NewInMemoryGoalStore()

		daily, err := domain.NewGoalSet("user-1", domain.SectionAmanah, domain.PeriodDaily, "2026-08-30")
		require.NoError(t, err)
		weekly, err := domain.NewGoalSet("user-1", domain.SectionAmanah, domain.PeriodWeekly, "2026-08-24")
		require.NoError(t, err)
		require.NoError(t, s.PutGoalSet(ctx, daily))
		require.NoError(t, s.PutGoalSet(ctx, weekly))

		got, err := s.GetGoalSet(ctx, "user-1", domain.SectionAmanah, domain.PeriodWeekly)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-24", got.PeriodMarker)
	})

	t.Run("Success: Score snapshot round trip with isolation", func(t *testing.T) {
		s := NewInMemoryGoalStore()

		day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		snap := domain.NewScoreSnapshot("user-1")
		snap.Sections[domain.SectionIbadah] = domain.SectionState{Score: 60, DecayedThrough: day}
		require.NoError(t, s.PutScoreSnapshot(ctx, snap))

		snap.Sections[domain.SectionIbadah] = domain.SectionState{Score: 0}

		got, err := s.GetScoreSnapshot(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 60.0, got.Sections[domain.SectionIbadah].Score)
	})
}
