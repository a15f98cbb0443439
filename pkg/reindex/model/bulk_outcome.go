package model

type ItemFailure struct {
	ID     string
	Type   string
	Reason string
}

// BulkOutcome is the result of a single bulk submission of one batch.
// Retryable is set when at least one failed item reported a shard availability error.
type BulkOutcome struct {
	Total     int
	Failures  []ItemFailure
	Retryable bool
}

func (o BulkOutcome) HasFailures() bool {
	return len(o.Failures) > 0
}

func (o BulkOutcome) Succeeded() int {
	return o.Total - len(o.Failures)
}
