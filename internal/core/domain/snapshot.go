package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrSyncRowNotFound = errors.New("sync snapshot not found")
	ErrSyncRowConflict = errors.New("sync snapshot version conflict")
)

// SyncSnapshot is one row of the remote mirror: a section score for a user
// and period date, carrying the goal values it was computed from. The mirror
// is best effort and never authoritative over the local store; conflicting
// devices resolve last-write-wins via the version column.
type SyncSnapshot struct {
	ID         string          `json:"id" db:"id"`
	UserID     string          `json:"user_id" db:"user_id"`
	PeriodDate time.Time       `json:"period_date" db:"period_date"`
	Section    Section         `json:"section" db:"section"`
	Score      float64         `json:"score" db:"score"`
	Goals      json.RawMessage `json:"goals" db:"goals"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewSyncSnapshot(userID string, section Section, periodDate time.Time, score float64, goals json.RawMessage) *SyncSnapshot {
	now := time.Now().UTC()

	return &SyncSnapshot{
		UserID:     userID,
		Section:    section,
		PeriodDate: periodDate.UTC(),
		Score:      ClampScore(score),
		Goals:      goals,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *SyncSnapshot) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return errors.New("user_id is required")
	}
	if _, ok := Catalog[s.Section]; !ok {
		return ErrUnknownSection
	}
	if s.PeriodDate.IsZero() {
		return errors.New("period_date is required")
	}
	if s.Score < 0 || s.Score > 100 {
		return errors.New("score must be within [0, 100]")
	}
	return nil
}

// SnapshotRepository is the remote tabular collaborator for cross-device
// sync, keyed by user id, period date and section.
type SnapshotRepository interface {
	// Upsert inserts the row or overwrites the existing one for the same
	// (user_id, period_date, section), bumping its version.
	Upsert(ctx context.Context, snap *SyncSnapshot) error

	// GetByID retrieves a single active (non-deleted) row.
	GetByID(ctx context.Context, id string) (*SyncSnapshot, error)

	// ListByUserAndRange retrieves active rows whose period date falls in
	// [from, to], newest first. Feeds the stats views.
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*SyncSnapshot, error)

	// GetChanges returns every row (including soft-deleted ones) touched
	// after 'since', oldest first, so clients can replay deltas.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*SyncSnapshot, error)

	// Delete soft-deletes a row owned by the user.
	Delete(ctx context.Context, id string, userID string) error
}
