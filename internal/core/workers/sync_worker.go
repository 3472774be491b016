package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
)

// SnapshotPusher mirrors score snapshots to the remote store.
type SnapshotPusher interface {
	Push(ctx context.Context, snaps []*domain.SyncSnapshot) error
}

// SyncJob carries the snapshots to mirror. The payload is built at enqueue
// time so the worker never reads back through the service layer.
type SyncJob struct {
	UserID    string
	Snapshots []*domain.SyncSnapshot
}

// SyncWorker drains score snapshots to the remote mirror in the background.
// The mirror is best effort: a failed push is logged and dropped, never
// retried, and never surfaces to the user.
type SyncWorker struct {
	pusher SnapshotPusher
	jobs   chan SyncJob
	log    *zap.Logger
}

func NewSyncWorker(pusher SnapshotPusher, log *zap.Logger) *SyncWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncWorker{
		pusher: pusher,
		jobs:   make(chan SyncJob, 100),
		log:    log,
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	go func() {
		w.log.Info("sync worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("sync worker shutting down")
				return
			}
		}
	}()
}

// Enqueue submits a job without blocking. A full queue drops the job; the
// mirror catches up on the next score write.
func (w *SyncWorker) Enqueue(job SyncJob) {
	select {
	case w.jobs <- job:
	default:
		w.log.Warn("sync worker queue full, dropping job", zap.String("user_id", job.UserID))
	}
}

func (w *SyncWorker) processJob(ctx context.Context, job SyncJob) {
	if len(job.Snapshots) == 0 {
		return
	}

	if err := w.pusher.Push(ctx, job.Snapshots); err != nil {
		w.log.Warn("failed to mirror snapshots",
			zap.String("user_id", job.UserID),
			zap.Int("count", len(job.Snapshots)),
			zap.Error(err),
		)
		return
	}

	w.log.Debug("snapshots mirrored",
		zap.String("user_id", job.UserID),
		zap.Int("count", len(job.Snapshots)),
	)
}
