package service

import (
	"context"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/Avi18971911/product-reindexer/pkg/source"
)

// BatchReader pages through a RecordSource with offset/limit windows. The offset advances by the
// batch size on every call, so a short page marks the end of the source.
type BatchReader struct {
	source    source.RecordSource
	batchSize int
	offset    int
	exhausted bool
}

func NewBatchReader(source source.RecordSource, batchSize int) *BatchReader {
	if batchSize < 1 {
		batchSize = 1
	}
	return &BatchReader{source: source, batchSize: batchSize}
}

// NextBatch returns the next page and false once the source has no more records.
func (br *BatchReader) NextBatch(ctx context.Context) (model.RecordBatch, bool, error) {
	if br.exhausted {
		return model.RecordBatch{Offset: br.offset}, false, nil
	}

	br.source.ReleaseReadCache()
	records, err := br.source.Page(ctx, br.offset, br.batchSize)
	if err != nil {
		return model.RecordBatch{}, false, &SourceError{Op: SourceOpPage, Err: err}
	}

	batch := model.RecordBatch{Offset: br.offset, Records: records}
	br.offset += br.batchSize
	if len(records) < br.batchSize {
		br.exhausted = true
	}
	return batch, len(records) > 0, nil
}
