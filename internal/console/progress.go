package console

import (
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/service"
)

// ProgressObserver prints one progress line per resolved batch.
type ProgressObserver struct {
	printer *Printer
}

func NewProgressObserver(printer *Printer) *ProgressObserver {
	return &ProgressObserver{printer: printer}
}

func (o *ProgressObserver) OnBatch(progress model.RunProgress, result service.BatchResult) {
	o.printer.Info(
		"%d/%d (%.1f%%) indexed, %d failed",
		progress.Attempted,
		progress.Expected,
		progress.Percent(),
		progress.Failed,
	)
	if result.Exhausted {
		o.printer.Warning(
			"batch gave up after %d attempts, %d records recorded as failed",
			result.Attempts,
			result.Recorded,
		)
	}
}
