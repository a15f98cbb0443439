package model

import "sort"

// FailureLedger maps a record id to the last reason it could not be indexed.
// It only grows during a run and is owned by the pipeline driver.
type FailureLedger struct {
	entries map[string]string
}

func NewFailureLedger() *FailureLedger {
	return &FailureLedger{entries: make(map[string]string)}
}

// Record stores reason for id and reports whether id was new to the ledger.
func (l *FailureLedger) Record(id string, reason string) bool {
	_, seen := l.entries[id]
	l.entries[id] = reason
	return !seen
}

func (l *FailureLedger) Reason(id string) (string, bool) {
	reason, ok := l.entries[id]
	return reason, ok
}

func (l *FailureLedger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the ledger.
func (l *FailureLedger) Entries() map[string]string {
	out := make(map[string]string, len(l.entries))
	for id, reason := range l.entries {
		out[id] = reason
	}
	return out
}

func (l *FailureLedger) IDs() []string {
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
