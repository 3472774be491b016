package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hamzakhalil/iman-score-engine/internal/adapters/store"
	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
	"github.com/hamzakhalil/iman-score-engine/internal/core/services"
)

type MockGoalStore struct {
	mock.Mock
}

func (m *MockGoalStore) GetGoalSet(ctx context.Context, userID string, section domain.Section, period domain.Period) (*domain.GoalSet, error) {
	args := m.Called(ctx, userID, section, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalSet), args.Error(1)
}

func (m *MockGoalStore) PutGoalSet(ctx context.Context, set *domain.GoalSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockGoalStore) GetScoreSnapshot(ctx context.Context, userID string) (*domain.ScoreSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoreSnapshot), args.Error(1)
}

func (m *MockGoalStore) PutScoreSnapshot(ctx context.Context, snap *domain.ScoreSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func TestTrackerService_Refresh(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	t.Run("Success: Brand-new user scores zero everywhere", func(t *testing.T) {
		svc := services.NewTrackerService(store.NewInMemoryGoalStore(), nil, nil)

		board, err := svc.Refresh(ctx, uid, time.UTC)
		require.NoError(t, err)

		assert.Zero(t, board.Overall)
		for _, section := range domain.Sections {
			assert.Zero(t, board.Sections[section])
		}
		assert.False(t, board.ComputedAt.IsZero())
	})

	t.Run("Success: Two of five prayers publishes ibadah 40", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		for _, key := range []string{"fajr", "dhuhr"} {
			_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
				UserID: uid, Section: domain.SectionIbadah, Key: key, Value: 1, Location: time.UTC,
			})
			require.NoError(t, err)
		}

		scores, err := svc.SectionScores(ctx, uid, time.UTC)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, scores[domain.SectionIbadah], 0.0001)
	})

	t.Run("Success: Cumulative goal contributes its partial ratio", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		// quran_pages weighs 0.5 in ilm; 3 of 5 pages is a 0.6 ratio.
		_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
			UserID: uid, Section: domain.SectionIlm, Key: "quran_pages", Value: 3, Location: time.UTC,
		})
		require.NoError(t, err)

		scores, err := svc.SectionScores(ctx, uid, time.UTC)
		require.NoError(t, err)
		assert.InDelta(t, 30.0, scores[domain.SectionIlm], 0.0001)
	})

	t.Run("Success: Weekly goal counts toward its section", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
			UserID: uid, Section: domain.SectionAmanah, Key: "sadaqah", Value: 1, Location: time.UTC,
		})
		require.NoError(t, err)

		scores, err := svc.SectionScores(ctx, uid, time.UTC)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, scores[domain.SectionAmanah], 0.0001)
	})

	t.Run("Decay: Stale cached score loses one penalty, once", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		yesterday := domain.DayStart(time.Now(), time.UTC).AddDate(0, 0, -1)
		snap := domain.NewScoreSnapshot(uid)
		snap.Sections[domain.SectionIbadah] = domain.SectionState{Score: 80, DecayedThrough: yesterday}
		require.NoError(t, st.PutScoreSnapshot(ctx, snap))

		board, err := svc.Refresh(ctx, uid, time.UTC)
		require.NoError(t, err)
		assert.InDelta(t, 70.0, board.Sections[domain.SectionIbadah], 0.0001)

		board, err = svc.Refresh(ctx, uid, time.UTC)
		require.NoError(t, err)
		assert.InDelta(t, 70.0, board.Sections[domain.SectionIbadah], 0.0001,
			"no double-decay within the same day")
	})

	t.Run("Decay: Fresh progress beats a lower decayed carry", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		yesterday := domain.DayStart(time.Now(), time.UTC).AddDate(0, 0, -1)
		snap := domain.NewScoreSnapshot(uid)
		snap.Sections[domain.SectionIbadah] = domain.SectionState{Score: 15, DecayedThrough: yesterday}
		require.NoError(t, st.PutScoreSnapshot(ctx, snap))

		for _, key := range []string{"fajr", "dhuhr"} {
			_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
				UserID: uid, Section: domain.SectionIbadah, Key: key, Value: 1, Location: time.UTC,
			})
			require.NoError(t, err)
		}

		scores, err := svc.SectionScores(ctx, uid, time.UTC)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, scores[domain.SectionIbadah], 0.0001,
			"today's earned 40 outranks the decayed carry of 5")
	})

	t.Run("Fail open: Unreadable snapshot store still serves scores", func(t *testing.T) {
		goalStore := store.NewInMemoryGoalStore()
		mockStore := new(MockGoalStore)

		mockStore.On("GetScoreSnapshot", ctx, uid).Return(nil, errors.New("disk on fire"))
		mockStore.On("PutScoreSnapshot", ctx, mock.Anything).Return(errors.New("still on fire"))
		mockStore.On("GetGoalSet", ctx, uid, mock.Anything, mock.Anything).
			Return(nil, domain.ErrGoalSetNotFound)
		mockStore.On("PutGoalSet", ctx, mock.Anything).
			Return(nil).
			Run(func(args mock.Arguments) {
				_ = goalStore.PutGoalSet(ctx, args.Get(1).(*domain.GoalSet))
			})

		svc := services.NewTrackerService(mockStore, nil, nil)

		board, err := svc.Refresh(ctx, uid, time.UTC)
		require.NoError(t, err, "storage failures must degrade, not error")
		assert.Zero(t, board.Overall)
	})

	t.Run("Fail: Empty user id is rejected", func(t *testing.T) {
		svc := services.NewTrackerService(store.NewInMemoryGoalStore(), nil, nil)
		_, err := svc.Refresh(ctx, "", time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidUserID)
	})
}

func TestTrackerService_UpdateGoal(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	t.Run("Success: Value is persisted into the right period set", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		set, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
			UserID: uid, Section: domain.SectionIlm, Key: "dhikr_count", Value: 33, Location: time.UTC,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.PeriodDaily, set.Period)
		assert.Equal(t, 33, set.Values["dhikr_count"])

		stored, err := st.GetGoalSet(ctx, uid, domain.SectionIlm, domain.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 33, stored.Values["dhikr_count"])
	})

	t.Run("Fail: Unknown goal key", func(t *testing.T) {
		svc := services.NewTrackerService(store.NewInMemoryGoalStore(), nil, nil)

		_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
			UserID: uid, Section: domain.SectionIbadah, Key: "tahajjud", Value: 1, Location: time.UTC,
		})
		assert.ErrorIs(t, err, domain.ErrUnknownGoal)
	})

	t.Run("Fail: Empty user id", func(t *testing.T) {
		svc := services.NewTrackerService(store.NewInMemoryGoalStore(), nil, nil)

		_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
			Section: domain.SectionIbadah, Key: "fajr", Value: 1, Location: time.UTC,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidUserID)
	})
}

func TestTrackerService_GoalSets(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	t.Run("Success: Lazily creates defaults for every section and period", func(t *testing.T) {
		svc := services.NewTrackerService(store.NewInMemoryGoalStore(), nil, nil)

		sets, err := svc.GoalSets(ctx, uid, time.UTC)
		require.NoError(t, err)

		// ibadah daily, ilm daily, amanah daily, amanah weekly.
		assert.Len(t, sets, 4)
	})

	t.Run("Rollover: Stale marker resets values and advances the marker", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		stale, err := domain.NewGoalSet(uid, domain.SectionIbadah, domain.PeriodDaily,
			domain.Marker(domain.PeriodDaily, time.Now().AddDate(0, 0, -1), time.UTC))
		require.NoError(t, err)
		require.NoError(t, stale.SetValue("fajr", 1))
		require.NoError(t, st.PutGoalSet(ctx, stale))

		sets, err := svc.GoalSets(ctx, uid, time.UTC)
		require.NoError(t, err)

		today := domain.Marker(domain.PeriodDaily, time.Now(), time.UTC)
		for _, set := range sets {
			if set.Section == domain.SectionIbadah && set.Period == domain.PeriodDaily {
				assert.Equal(t, today, set.PeriodMarker, "marker must advance to the current day")
				assert.Zero(t, set.Values["fajr"], "values must reset to defaults")
			}
		}

		stored, err := st.GetGoalSet(ctx, uid, domain.SectionIbadah, domain.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, today, stored.PeriodMarker, "reset must be persisted before returning")
	})

	t.Run("Rollover: Current-period values survive a read", func(t *testing.T) {
		st := store.NewInMemoryGoalStore()
		svc := services.NewTrackerService(st, nil, nil)

		_, err := svc.UpdateGoal(ctx, services.UpdateGoalInput{
			UserID: uid, Section: domain.SectionIbadah, Key: "fajr", Value: 1, Location: time.UTC,
		})
		require.NoError(t, err)

		sets, err := svc.GoalSets(ctx, uid, time.UTC)
		require.NoError(t, err)

		for _, set := range sets {
			if set.Section == domain.SectionIbadah {
				assert.Equal(t, 1, set.Values["fajr"])
			}
		}
	})
}
