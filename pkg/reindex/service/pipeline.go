package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/Avi18971911/product-reindexer/pkg/source"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressObserver is told about every resolved batch.
type ProgressObserver interface {
	OnBatch(progress model.RunProgress, result BatchResult)
}

type Option func(*Pipeline)

// WithSleeper replaces the sleep used for backoff and health polling.
func WithSleeper(sleep Sleeper) Option {
	return func(p *Pipeline) {
		p.sleep = sleep
	}
}

// WithRedClusterDecider overrides the ProceedOnRed configuration flag.
func WithRedClusterDecider(decider RedClusterDecider) Option {
	return func(p *Pipeline) {
		p.decideOnRed = decider
	}
}

func WithObserver(observer ProgressObserver) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline rebuilds one index from a record source: health gate, drop and create, batched bulk
// writes with retries, then finalization.
type Pipeline struct {
	ic          client.IndexClient
	source      source.RecordSource
	config      Config
	healthGate  HealthGate
	lifecycle   IndexLifecycleManager
	writer      BulkWriter
	finalizer   Finalizer
	observer    ProgressObserver
	decideOnRed RedClusterDecider
	sleep       Sleeper
	now         func() time.Time
	logger      *zap.Logger
}

func NewPipeline(
	ic client.IndexClient,
	source source.RecordSource,
	config Config,
	logger *zap.Logger,
	opts ...Option,
) (*Pipeline, error) {
	p := &Pipeline{
		ic:          ic,
		source:      source,
		config:      config,
		decideOnRed: ProceedOnRed(config.ProceedOnRed),
		sleep:       SleepContext,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	newBackOff, err := NewRetryBackOff(config.BackOffStrategy, config.BackOffBase)
	if err != nil {
		return nil, fmt.Errorf("failed to build retry policy: %w", err)
	}

	indexName := config.Index.Name
	p.healthGate = NewHealthGateImpl(
		ic,
		config.HealthPollInterval,
		config.HealthTimeout,
		config.RedRecoveryWait,
		p.decideOnRed,
		p.sleep,
		logger,
	)
	p.lifecycle = NewIndexLifecycleManagerImpl(
		ic,
		p.healthGate,
		config.DeleteConfirmAttempts,
		config.DeleteConfirmInterval,
		config.IndexReadyAttempts,
		p.sleep,
		logger,
	)
	p.writer = NewBulkWriterImpl(
		ic,
		p.healthGate,
		indexName,
		config.MaxRetries,
		config.IndexReadyAttempts,
		newBackOff,
		p.sleep,
		logger,
	)
	p.finalizer = NewFinalizerImpl(ic, indexName, config.MaxSegments, logger)
	return p, nil
}

// Run executes one full rebuild. Fatal errors (unreachable or red cluster, index creation,
// source count) are returned before any write happens. Failed records never fail the run; they
// are listed in the report. A source read failure mid-run stops reading, finalizes what was
// written and is returned together with the report. When ctx is done mid-run the counters
// reached so far are returned with ctx.Err(), without finalizing.
func (p *Pipeline) Run(ctx context.Context) (model.Report, error) {
	runID := uuid.NewString()
	indexName := p.config.Index.Name
	startedAt := p.now()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("index", indexName))
	report := model.Report{RunID: runID, Index: indexName, StartedAt: startedAt, IndexedCount: model.UnknownCount}

	if err := p.healthGate.EnsureClusterUsable(ctx); err != nil {
		return p.stamp(report, startedAt), fmt.Errorf("cluster health check failed: %w", err)
	}

	if err := p.lifecycle.DropIndexIfExists(ctx, indexName); err != nil {
		return p.stamp(report, startedAt), err
	}
	if err := p.lifecycle.CreateIndex(ctx, p.config.Index); err != nil {
		return p.stamp(report, startedAt), err
	}

	expected, err := p.source.Count(ctx)
	if err != nil {
		return p.stamp(report, startedAt), &SourceError{Op: SourceOpCount, Err: err}
	}
	logger.Info("Found records to index", zap.Int("expected", expected))

	tracker := NewProgressTracker(p.ic, indexName, expected, p.config.RefreshEvery, p.now, logger)
	reader := NewBatchReader(p.source, p.config.BatchSize)
	interrupted := func(err error) (model.Report, error) {
		partial := model.NewReport(runID, indexName, tracker.Snapshot(), tracker.Ledger())
		logger.Warn(
			"Reindex interrupted",
			zap.Int("attempted", partial.Attempted),
			zap.Int("failed", partial.FailedCount),
			zap.Error(err),
		)
		return p.stamp(partial, startedAt), err
	}

	var readErr error
	for {
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		batch, ok, err := reader.NextBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return interrupted(ctx.Err())
			}
			logger.Error("Failed to read from record source, stopping", zap.Error(err))
			readErr = err
			break
		}
		if !ok {
			break
		}

		result, err := p.writer.WriteBatch(ctx, batch, tracker.Ledger())
		if err != nil {
			return interrupted(err)
		}
		progress := tracker.Advance(ctx, batch.Len())
		logger.Debug(
			"Batch resolved",
			zap.Int("offset", batch.Offset),
			zap.Int("attempts", result.Attempts),
			zap.Int("attempted", progress.Attempted),
			zap.Int("failed", progress.Failed),
		)
		if p.observer != nil {
			p.observer.OnBatch(progress, result)
		}
	}

	report = p.stamp(p.finalizer.Finalize(ctx, runID, tracker.Snapshot(), tracker.Ledger()), startedAt)
	logger.Info(
		"Reindex finished",
		zap.Int64("indexed", report.IndexedCount),
		zap.Int("expected", report.Expected),
		zap.Int("failed", report.FailedCount),
		zap.Duration("elapsed", report.Elapsed),
	)
	if report.FailedCount > 0 {
		logger.Warn("Some records could not be indexed", zap.Int("failed", report.FailedCount))
	}
	return report, readErr
}

// stamp times the report from the start of the run, so health waits and index setup count.
func (p *Pipeline) stamp(report model.Report, startedAt time.Time) model.Report {
	report.StartedAt = startedAt
	report.Elapsed = p.now().Sub(startedAt)
	return report
}
