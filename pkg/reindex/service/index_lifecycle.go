package service

import (
	"context"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"go.uber.org/zap"
)

type IndexLifecycleManager interface {
	// DropIndexIfExists deletes the index and waits for the deletion to show. It only returns an
	// error when ctx is done; a later create fails loudly if a stale index survived.
	DropIndexIfExists(ctx context.Context, index string) error
	// CreateIndex creates the index described by spec and waits for it to serve writes.
	CreateIndex(ctx context.Context, spec model.IndexSpec) error
}

type IndexLifecycleManagerImpl struct {
	ic             client.IndexClient
	healthGate     HealthGate
	deleteAttempts int
	deleteInterval time.Duration
	readyAttempts  int
	sleep          Sleeper
	logger         *zap.Logger
}

func NewIndexLifecycleManagerImpl(
	ic client.IndexClient,
	healthGate HealthGate,
	deleteAttempts int,
	deleteInterval time.Duration,
	readyAttempts int,
	sleep Sleeper,
	logger *zap.Logger,
) *IndexLifecycleManagerImpl {
	if sleep == nil {
		sleep = SleepContext
	}
	return &IndexLifecycleManagerImpl{
		ic:             ic,
		healthGate:     healthGate,
		deleteAttempts: deleteAttempts,
		deleteInterval: deleteInterval,
		readyAttempts:  readyAttempts,
		sleep:          sleep,
		logger:         logger,
	}
}

func (lm *IndexLifecycleManagerImpl) DropIndexIfExists(ctx context.Context, index string) error {
	exists, err := lm.ic.IndexExists(ctx, index)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lm.logger.Warn("Failed to check whether the index exists", zap.String("index", index), zap.Error(err))
		return nil
	}
	if !exists {
		lm.logger.Info("Index did not exist before", zap.String("index", index))
		return nil
	}

	lm.logger.Info("Deleting old index", zap.String("index", index))
	if err := lm.ic.DeleteIndex(ctx, index); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lm.logger.Warn("Failed to delete index", zap.String("index", index), zap.Error(err))
		return nil
	}

	for attempt := 1; attempt <= lm.deleteAttempts; attempt++ {
		if err := lm.sleep(ctx, lm.deleteInterval); err != nil {
			return err
		}
		exists, err = lm.ic.IndexExists(ctx, index)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lm.logger.Warn("Failed to confirm index deletion", zap.String("index", index), zap.Error(err))
			continue
		}
		if !exists {
			lm.logger.Info("Index deleted", zap.String("index", index))
			return nil
		}
		lm.logger.Info("Waiting for index deletion", zap.String("index", index), zap.Int("attempt", attempt))
	}

	lm.logger.Warn(
		"Index deletion was not confirmed, continuing",
		zap.String("index", index),
		zap.Int("attempts", lm.deleteAttempts),
	)
	return nil
}

func (lm *IndexLifecycleManagerImpl) CreateIndex(ctx context.Context, spec model.IndexSpec) error {
	lm.logger.Info(
		"Creating index",
		zap.String("index", spec.Name),
		zap.Int("shards", spec.Shards),
		zap.Int("replicas", spec.Replicas),
		zap.String("refresh_interval", spec.RefreshInterval),
	)
	if err := lm.ic.CreateIndex(ctx, spec.Name, spec.Body()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &IndexCreationError{Index: spec.Name, Err: err}
	}

	ready, err := lm.healthGate.WaitForIndexReady(ctx, spec.Name, lm.readyAttempts)
	if err != nil {
		return err
	}
	if !ready {
		lm.logger.Warn("Index created but not confirmed ready, writes may fail", zap.String("index", spec.Name))
	}
	return nil
}
