package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

var _ domain.SnapshotRepository = (*InMemorySnapshotRepository)(nil)

// InMemorySnapshotRepository backs tests and local development without
// postgres. Upsert semantics match the SQL implementation, soft delete
// included.
type InMemorySnapshotRepository struct {
	store map[string]*domain.SyncSnapshot // by id
	keys  map[string]string               // (user, date, section) -> id

	mu sync.RWMutex
}

func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{
		store: make(map[string]*domain.SyncSnapshot),
		keys:  make(map[string]string),
	}
}

func snapKey(userID string, periodDate time.Time, section domain.Section) string {
	return fmt.Sprintf("%s:%s:%s", userID, periodDate.UTC().Format("2006-01-02"), section)
}

func (r *InMemorySnapshotRepository) Upsert(ctx context.Context, snap *domain.SyncSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := snapKey(snap.UserID, snap.PeriodDate, snap.Section)

	if existingID, ok := r.keys[key]; ok {
		existing := r.store[existingID]
		cp := *snap
		cp.ID = existingID
		cp.Version = existing.Version + 1
		cp.CreatedAt = existing.CreatedAt
		cp.DeletedAt = nil
		r.store[existingID] = &cp
		snap.ID = existingID
		snap.Version = cp.Version
		return nil
	}

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	cp := *snap
	r.store[snap.ID] = &cp
	r.keys[key] = snap.ID
	return nil
}

func (r *InMemorySnapshotRepository) GetByID(ctx context.Context, id string) (*domain.SyncSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.store[id]
	if !ok || snap.DeletedAt != nil {
		return nil, domain.ErrSyncRowNotFound
	}
	cp := *snap
	return &cp, nil
}

func (r *InMemorySnapshotRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.SyncSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var snaps []*domain.SyncSnapshot
	for _, s := range r.store {
		if s.UserID != userID || s.DeletedAt != nil {
			continue
		}
		if s.PeriodDate.Before(from) || s.PeriodDate.After(to) {
			continue
		}
		cp := *s
		snaps = append(snaps, &cp)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].PeriodDate.After(snaps[j].PeriodDate)
	})

	return snaps, nil
}

func (r *InMemorySnapshotRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.SyncSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var snaps []*domain.SyncSnapshot
	for _, s := range r.store {
		if s.UserID != userID || !s.UpdatedAt.After(since) {
			continue
		}
		cp := *s
		snaps = append(snaps, &cp)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].UpdatedAt.Before(snaps[j].UpdatedAt)
	})

	return snaps, nil
}

func (r *InMemorySnapshotRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.store[id]
	if !ok || snap.UserID != userID || snap.DeletedAt != nil {
		return domain.ErrSyncRowNotFound
	}

	now := time.Now().UTC()
	snap.DeletedAt = &now
	snap.UpdatedAt = now
	snap.Version++
	return nil
}
