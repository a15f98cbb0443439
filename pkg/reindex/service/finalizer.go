package service

import (
	"context"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"go.uber.org/zap"
)

type Finalizer interface {
	// Finalize refreshes and force-merges the index and builds the run report. Failures are
	// logged and never undo the run.
	Finalize(
		ctx context.Context,
		runID string,
		progress model.RunProgress,
		ledger *model.FailureLedger,
	) model.Report
}

type FinalizerImpl struct {
	ic          client.IndexClient
	index       string
	maxSegments int
	logger      *zap.Logger
}

func NewFinalizerImpl(ic client.IndexClient, index string, maxSegments int, logger *zap.Logger) *FinalizerImpl {
	if maxSegments < 1 {
		maxSegments = 1
	}
	return &FinalizerImpl{
		ic:          ic,
		index:       index,
		maxSegments: maxSegments,
		logger:      logger,
	}
}

func (f *FinalizerImpl) Finalize(
	ctx context.Context,
	runID string,
	progress model.RunProgress,
	ledger *model.FailureLedger,
) model.Report {
	f.logger.Info("Finalizing index", zap.String("index", f.index))
	if err := f.ic.Refresh(ctx, f.index); err != nil {
		f.logger.Error("Failed to refresh index during finalization", zap.String("index", f.index), zap.Error(err))
	}
	if err := f.ic.ForceMerge(ctx, f.index, f.maxSegments); err != nil {
		f.logger.Error("Failed to force merge index", zap.String("index", f.index), zap.Error(err))
	}

	indexed, err := f.ic.Count(ctx, f.index)
	if err != nil {
		f.logger.Error("Failed to count indexed documents", zap.String("index", f.index), zap.Error(err))
		indexed = model.UnknownCount
	}

	report := model.NewReport(runID, f.index, progress, ledger)
	report.IndexedCount = indexed
	return report
}
