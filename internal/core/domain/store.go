package domain

import (
	"context"
	"errors"
)

var (
	ErrGoalSetNotFound  = errors.New("goal set not found")
	ErrSnapshotNotFound = errors.New("score snapshot not found")
)

// GoalStore is the key-value collaborator holding the live goal sets and the
// cached score snapshot of each user. Implementations must treat corrupted
// stored data as a miss (fail open), never as a fatal error.
type GoalStore interface {
	// GetGoalSet retrieves the stored set for one section and period.
	// Returns ErrGoalSetNotFound when nothing (usable) is stored.
	GetGoalSet(ctx context.Context, userID string, section Section, period Period) (*GoalSet, error)

	// PutGoalSet persists the set, overwriting any previous value.
	// Last write wins.
	PutGoalSet(ctx context.Context, set *GoalSet) error

	// GetScoreSnapshot retrieves the cached decay state for a user.
	// Returns ErrSnapshotNotFound when nothing (usable) is stored.
	GetScoreSnapshot(ctx context.Context, userID string) (*ScoreSnapshot, error)

	// PutScoreSnapshot persists the cached decay state.
	PutScoreSnapshot(ctx context.Context, snap *ScoreSnapshot) error
}
