package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

var _ domain.SnapshotRepository = (*PostgresSnapshotRepository)(nil)

type PostgresSnapshotRepository struct {
	db *sqlx.DB
}

func NewPostgresSnapshotRepository(db *sqlx.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Upsert writes the snapshot for (user_id, period_date, section). An existing
// row is overwritten and its version bumped: the mirror is last-write-wins
// across devices.
func (r *PostgresSnapshotRepository) Upsert(ctx context.Context, snap *domain.SyncSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	query := `
		INSERT INTO score_snapshots (
			id, user_id, period_date, section,
			score, goals,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :user_id, :period_date, :section,
			:score, :goals,
			:version, :created_at, :updated_at, :deleted_at
		)
		ON CONFLICT (user_id, period_date, section)
		DO UPDATE SET
			score      = excluded.score,
			goals      = excluded.goals,
			version    = score_snapshots.version + 1,
			updated_at = excluded.updated_at,
			deleted_at = NULL`

	_, err := r.db.NamedExecContext(ctx, query, snap)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return errors.New("referenced user does not exist")
			}
		}
		return err
	}
	return nil
}

func (r *PostgresSnapshotRepository) GetByID(ctx context.Context, id string) (*domain.SyncSnapshot, error) {
	var snap domain.SyncSnapshot
	query := `SELECT * FROM score_snapshots WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &snap, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSyncRowNotFound
		}
		return nil, err
	}
	return &snap, nil
}

func (r *PostgresSnapshotRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.SyncSnapshot, error) {
	snaps := []*domain.SyncSnapshot{}

	query := `
		SELECT * FROM score_snapshots
		WHERE user_id = $1
		  AND period_date >= $2
		  AND period_date <= $3
		  AND deleted_at IS NULL
		ORDER BY period_date DESC`

	err := r.db.SelectContext(ctx, &snaps, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *PostgresSnapshotRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.SyncSnapshot, error) {
	snaps := []*domain.SyncSnapshot{}

	query := `
		SELECT * FROM score_snapshots
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	err := r.db.SelectContext(ctx, &snaps, query, userID, since)
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *PostgresSnapshotRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE score_snapshots
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSyncRowNotFound
	}

	return nil
}
