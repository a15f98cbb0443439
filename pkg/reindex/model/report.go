package model

import "time"

// UnknownCount marks an index document count that could not be read during finalization.
const UnknownCount int64 = -1

type Report struct {
	RunID        string            `json:"run_id"`
	Index        string            `json:"index"`
	StartedAt    time.Time         `json:"started_at"`
	Elapsed      time.Duration     `json:"elapsed_ns"`
	Expected     int               `json:"expected"`
	Attempted    int               `json:"attempted"`
	Succeeded    int               `json:"succeeded"`
	IndexedCount int64             `json:"indexed_count"`
	FailedCount  int               `json:"failed_count"`
	Failures     map[string]string `json:"failures"`
}

func (r Report) Complete() bool {
	return r.FailedCount == 0 && r.IndexedCount == int64(r.Expected)
}

// NewReport fills the counters of a report from the run progress and the failure ledger. The
// document count starts out unknown.
func NewReport(runID string, index string, progress RunProgress, ledger *FailureLedger) Report {
	return Report{
		RunID:        runID,
		Index:        index,
		StartedAt:    progress.StartedAt,
		Elapsed:      progress.Elapsed,
		Expected:     progress.Expected,
		Attempted:    progress.Attempted,
		Succeeded:    progress.Attempted - ledger.Len(),
		IndexedCount: UnknownCount,
		FailedCount:  ledger.Len(),
		Failures:     ledger.Entries(),
	}
}
