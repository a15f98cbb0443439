package report

import (
	"context"
	"errors"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
)

// MultiSink publishes to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, report model.Report) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
