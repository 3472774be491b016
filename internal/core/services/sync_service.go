package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

// SyncService fronts the remote snapshot mirror. Pushes are last-write-wins
// per (user, period date, section); the mirror is never authoritative over
// the local goal store.
type SyncService struct {
	repo domain.SnapshotRepository
}

func NewSyncService(repo domain.SnapshotRepository) *SyncService {
	return &SyncService{repo: repo}
}

// Push upserts a batch of snapshots. The first failure aborts the batch;
// the caller (the sync worker) treats any error as a dropped best-effort push.
func (s *SyncService) Push(ctx context.Context, snaps []*domain.SyncSnapshot) error {
	for _, snap := range snaps {
		if err := snap.Validate(); err != nil {
			return fmt.Errorf("sync service: invalid snapshot: %w", err)
		}
		if err := s.repo.Upsert(ctx, snap); err != nil {
			return fmt.Errorf("sync service: upsert failed: %w", err)
		}
	}
	return nil
}

// GetDelta returns every snapshot of the user changed after 'since',
// soft-deleted rows included, so devices can replay remote changes.
func (s *SyncService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.SyncSnapshot, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	return s.repo.GetChanges(ctx, userID, since)
}
