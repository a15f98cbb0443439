package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
)

// Sink stores a finished run report for later review.
type Sink interface {
	Publish(ctx context.Context, report model.Report) error
}

func marshalReport(report model.Report) ([]byte, error) {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return payload, nil
}
