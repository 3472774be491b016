package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

var _ domain.GoalStore = (*RedisGoalStore)(nil)

// RedisGoalStore keeps goal sets and score snapshots as namespaced JSON
// documents. Corrupted documents are deleted and reported as a miss, so a
// bad write can never block a score read.
type RedisGoalStore struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisGoalStore(rdb *redis.Client, log *zap.Logger) *RedisGoalStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisGoalStore{rdb: rdb, log: log}
}

func (s *RedisGoalStore) goalKey(userID string, section domain.Section, period domain.Period) string {
	return fmt.Sprintf("goals:%s:%s:%s", userID, section, period)
}

func (s *RedisGoalStore) scoreKey(userID string) string {
	return fmt.Sprintf("scores:%s", userID)
}

func (s *RedisGoalStore) GetGoalSet(ctx context.Context, userID string, section domain.Section, period domain.Period) (*domain.GoalSet, error) {
	key := s.goalKey(userID, section, period)

	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrGoalSetNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var set domain.GoalSet
	if err := json.Unmarshal([]byte(val), &set); err != nil {
		s.log.Warn("corrupted goal set, cleaning up key",
			zap.String("key", key), zap.Error(err))
		s.rdb.Del(ctx, key)
		return nil, domain.ErrGoalSetNotFound
	}

	return &set, nil
}

func (s *RedisGoalStore) PutGoalSet(ctx context.Context, set *domain.GoalSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal goal set: %w", err)
	}

	key := s.goalKey(set.UserID, set.Section, set.Period)
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisGoalStore) GetScoreSnapshot(ctx context.Context, userID string) (*domain.ScoreSnapshot, error) {
	key := s.scoreKey(userID)

	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var snap domain.ScoreSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		s.log.Warn("corrupted score snapshot, cleaning up key",
			zap.String("key", key), zap.Error(err))
		s.rdb.Del(ctx, key)
		return nil, domain.ErrSnapshotNotFound
	}

	return &snap, nil
}

func (s *RedisGoalStore) PutScoreSnapshot(ctx context.Context, snap *domain.ScoreSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal score snapshot: %w", err)
	}

	key := s.scoreKey(snap.UserID)
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
