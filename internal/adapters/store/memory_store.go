package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

var _ domain.GoalStore = (*InMemoryGoalStore)(nil)

// InMemoryGoalStore backs tests and local development without redis.
type InMemoryGoalStore struct {
	goals map[string]*domain.GoalSet
	snaps map[string]*domain.ScoreSnapshot

	mu sync.RWMutex
}

func NewInMemoryGoalStore() *InMemoryGoalStore {
	return &InMemoryGoalStore{
		goals: make(map[string]*domain.GoalSet),
		snaps: make(map[string]*domain.ScoreSnapshot),
	}
}

func goalKey(userID string, section domain.Section, period domain.Period) string {
	return fmt.Sprintf("%s:%s:%s", userID, section, period)
}

func (s *InMemoryGoalStore) GetGoalSet(ctx context.Context, userID string, section domain.Section, period domain.Period) (*domain.GoalSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.goals[goalKey(userID, section, period)]
	if !ok {
		return nil, domain.ErrGoalSetNotFound
	}

	cp := *set
	cp.Values = make(map[string]int, len(set.Values))
	for k, v := range set.Values {
		cp.Values[k] = v
	}
	return &cp, nil
}

func (s *InMemoryGoalStore) PutGoalSet(ctx context.Context, set *domain.GoalSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *set
	cp.Values = make(map[string]int, len(set.Values))
	for k, v := range set.Values {
		cp.Values[k] = v
	}
	s.goals[goalKey(set.UserID, set.Section, set.Period)] = &cp
	return nil
}

func (s *InMemoryGoalStore) GetScoreSnapshot(ctx context.Context, userID string) (*domain.ScoreSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[userID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}

	cp := *snap
	cp.Sections = make(map[domain.Section]domain.SectionState, len(snap.Sections))
	for k, v := range snap.Sections {
		cp.Sections[k] = v
	}
	return &cp, nil
}

func (s *InMemoryGoalStore) PutScoreSnapshot(ctx context.Context, snap *domain.ScoreSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *snap
	cp.Sections = make(map[domain.Section]domain.SectionState, len(snap.Sections))
	for k, v := range snap.Sections {
		cp.Sections[k] = v
	}
	s.snaps[snap.UserID] = &cp
	return nil
}
