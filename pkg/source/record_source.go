package source

import (
	"context"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
)

type RecordSource interface {
	// Count returns the number of records the source holds
	Count(ctx context.Context) (int, error)
	// Page returns up to limit records starting at offset, in primary key order
	Page(ctx context.Context, offset int, limit int) ([]model.SourceRecord, error)
	// ReleaseReadCache drops every record the source holds on to between pages
	ReleaseReadCache()
}
