package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	esModel "github.com/Avi18971911/product-reindexer/pkg/elasticsearch/model"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const unavailableShardsErrorType = "unavailable_shards_exception"
const unknownItemError = "unknown error"

// BatchResult describes how one batch was resolved.
type BatchResult struct {
	// Attempts is the number of bulk submissions made for the batch.
	Attempts int
	// Outcome is the classified result of the last structured bulk response.
	Outcome model.BulkOutcome
	// Recorded is the number of ids added to the failure ledger for this batch.
	Recorded int
	// Exhausted is set when the retry budget ran out.
	Exhausted bool
}

type BulkWriter interface {
	// WriteBatch submits the batch, retrying the whole batch on transport and shard errors, and
	// records permanently failed ids into ledger. The error is non-nil only when ctx is done.
	WriteBatch(ctx context.Context, batch model.RecordBatch, ledger *model.FailureLedger) (BatchResult, error)
}

type BulkWriterImpl struct {
	ic            client.IndexClient
	healthGate    HealthGate
	index         string
	maxRetries    int
	readyAttempts int
	newBackOff    func() backoff.BackOff
	sleep         Sleeper
	logger        *zap.Logger
}

func NewBulkWriterImpl(
	ic client.IndexClient,
	healthGate HealthGate,
	index string,
	maxRetries int,
	readyAttempts int,
	newBackOff func() backoff.BackOff,
	sleep Sleeper,
	logger *zap.Logger,
) *BulkWriterImpl {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if sleep == nil {
		sleep = SleepContext
	}
	return &BulkWriterImpl{
		ic:            ic,
		healthGate:    healthGate,
		index:         index,
		maxRetries:    maxRetries,
		readyAttempts: readyAttempts,
		newBackOff:    newBackOff,
		sleep:         sleep,
		logger:        logger,
	}
}

func (bw *BulkWriterImpl) WriteBatch(
	ctx context.Context,
	batch model.RecordBatch,
	ledger *model.FailureLedger,
) (BatchResult, error) {
	var result BatchResult
	if batch.Len() == 0 {
		return result, nil
	}

	metaMap, documentMap, err := client.ToMetaAndDataMap(batch.Documents())
	if err != nil {
		reason := fmt.Sprintf("failed to build bulk request: %v", err)
		bw.logger.Error("Failed to build bulk request", zap.Int("offset", batch.Offset), zap.Error(err))
		result.Recorded = recordAll(ledger, batch.IDs(), reason)
		return result, nil
	}

	policy := bw.newBackOff()
	policy.Reset()
	var lastErr error
	for attempt := 1; attempt <= bw.maxRetries; attempt++ {
		if attempt > 1 {
			if err := bw.prepareRetry(ctx, batch, attempt, policy); err != nil {
				return result, err
			}
		}

		result.Attempts = attempt
		res, err := bw.ic.Bulk(ctx, metaMap, documentMap, bw.index)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			lastErr = err
			bw.logger.Warn(
				"Failed to submit bulk batch",
				zap.Int("offset", batch.Offset),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		lastErr = nil
		outcome, unmatched := classifyBulkResponse(batch, res)
		result.Outcome = outcome
		if unmatched > 0 {
			bw.logger.Warn(
				"Bulk response has failed items that match no record",
				zap.Int("offset", batch.Offset),
				zap.Int("unmatched", unmatched),
			)
		}
		if !outcome.HasFailures() && !outcome.Retryable {
			return result, nil
		}
		if !outcome.Retryable {
			bw.logger.Warn(
				"Bulk batch finished with item errors",
				zap.Int("offset", batch.Offset),
				zap.Int("failed", len(outcome.Failures)),
			)
			result.Recorded = recordFailures(ledger, outcome.Failures)
			return result, nil
		}
		bw.logger.Warn(
			"Shard errors in bulk batch",
			zap.Int("offset", batch.Offset),
			zap.Int("attempt", attempt),
			zap.Int("failed", len(outcome.Failures)),
		)
	}

	result.Exhausted = true
	if lastErr != nil {
		result.Recorded = recordAll(ledger, batch.IDs(), lastErr.Error())
	} else {
		result.Recorded = recordFailures(ledger, result.Outcome.Failures)
	}
	bw.logger.Error(
		"Giving up on bulk batch",
		zap.Int("offset", batch.Offset),
		zap.Int("attempts", result.Attempts),
		zap.Int("recorded", result.Recorded),
	)
	return result, nil
}

func (bw *BulkWriterImpl) prepareRetry(
	ctx context.Context,
	batch model.RecordBatch,
	attempt int,
	policy backoff.BackOff,
) error {
	delay := policy.NextBackOff()
	if delay < 0 {
		delay = 0
	}
	bw.logger.Info(
		"Retrying bulk batch",
		zap.Int("offset", batch.Offset),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)
	if err := bw.sleep(ctx, delay); err != nil {
		return err
	}
	ready, err := bw.healthGate.WaitForIndexReady(ctx, bw.index, bw.readyAttempts)
	if err != nil {
		return err
	}
	if !ready {
		bw.logger.Warn("Retrying against an index that is not ready", zap.String("index", bw.index))
	}
	return nil
}

// classifyBulkResponse collects the failed items of a bulk response. Items are matched to records
// by the echoed _id, falling back to their position in the request. Failed items matching no
// record are counted in unmatched and left out of the failures; they still mark the outcome
// retryable when they carry a shard error.
func classifyBulkResponse(batch model.RecordBatch, res esModel.BulkResponse) (outcome model.BulkOutcome, unmatched int) {
	outcome = model.BulkOutcome{Total: batch.Len()}
	if !res.Errors {
		return outcome, 0
	}
	for i, entry := range res.Items {
		item, ok := esModel.Item(entry)
		if !ok || item.Error == nil {
			continue
		}
		if isShardError(item.Error) {
			outcome.Retryable = true
		}
		id := item.ID
		if id == "" && i < batch.Len() {
			id = batch.Records[i].ID
		}
		if id == "" {
			unmatched++
			continue
		}
		reason := item.Error.Reason
		if reason == "" {
			reason = unknownItemError
		}
		outcome.Failures = append(outcome.Failures, model.ItemFailure{
			ID:     id,
			Type:   item.Error.Type,
			Reason: reason,
		})
	}
	return outcome, unmatched
}

func isShardError(itemErr *esModel.ItemError) bool {
	return itemErr.Type == unavailableShardsErrorType ||
		strings.Contains(strings.ToLower(itemErr.Reason), "shard")
}

func recordFailures(ledger *model.FailureLedger, failures []model.ItemFailure) int {
	recorded := 0
	for _, failure := range failures {
		if ledger.Record(failure.ID, failure.Reason) {
			recorded++
		}
	}
	return recorded
}

func recordAll(ledger *model.FailureLedger, ids []string, reason string) int {
	recorded := 0
	for _, id := range ids {
		if ledger.Record(id, reason) {
			recorded++
		}
	}
	return recorded
}
