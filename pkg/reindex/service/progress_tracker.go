package service

import (
	"context"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"go.uber.org/zap"
)

// ProgressTracker owns the run counters and the failure ledger. It has a single writer, the
// pipeline driver, and is not safe for concurrent use.
type ProgressTracker struct {
	ic           client.IndexClient
	index        string
	refreshEvery int
	progress     model.RunProgress
	ledger       *model.FailureLedger
	refreshes    int
	now          func() time.Time
	logger       *zap.Logger
}

func NewProgressTracker(
	ic client.IndexClient,
	index string,
	expected int,
	refreshEvery int,
	now func() time.Time,
	logger *zap.Logger,
) *ProgressTracker {
	if now == nil {
		now = time.Now
	}
	return &ProgressTracker{
		ic:           ic,
		index:        index,
		refreshEvery: refreshEvery,
		progress: model.RunProgress{
			Expected:  expected,
			StartedAt: now(),
		},
		ledger: model.NewFailureLedger(),
		now:    now,
		logger: logger,
	}
}

func (pt *ProgressTracker) Ledger() *model.FailureLedger {
	return pt.ledger
}

// Advance adds a resolved batch of attempted records and refreshes the index whenever the
// attempted count crosses a multiple of refreshEvery.
func (pt *ProgressTracker) Advance(ctx context.Context, attempted int) model.RunProgress {
	previous := pt.progress.Attempted
	pt.progress.Attempted += attempted
	pt.progress.Failed = pt.ledger.Len()

	if pt.refreshEvery > 0 && previous/pt.refreshEvery < pt.progress.Attempted/pt.refreshEvery {
		pt.refreshes++
		if err := pt.ic.Refresh(ctx, pt.index); err != nil {
			pt.logger.Warn("Failed to refresh index", zap.String("index", pt.index), zap.Error(err))
		} else {
			pt.logger.Info(
				"Refreshed index",
				zap.String("index", pt.index),
				zap.Int("attempted", pt.progress.Attempted),
			)
		}
	}
	return pt.Snapshot()
}

// Refreshes is the number of mid-run refreshes triggered so far.
func (pt *ProgressTracker) Refreshes() int {
	return pt.refreshes
}

func (pt *ProgressTracker) Snapshot() model.RunProgress {
	snapshot := pt.progress
	snapshot.Failed = pt.ledger.Len()
	snapshot.Elapsed = pt.now().Sub(snapshot.StartedAt)
	return snapshot
}
