package model

import "time"

// RunProgress counts records across the whole run. Attempted advances by the size of every
// resolved batch, whatever happened to its items; Failed counts ledger entries.
type RunProgress struct {
	Expected  int
	Attempted int
	Failed    int
	StartedAt time.Time
	Elapsed   time.Duration
}

func (p RunProgress) Succeeded() int {
	return p.Attempted - p.Failed
}

// Percent is the attempted share of the expected total, capped at 100.
func (p RunProgress) Percent() float64 {
	if p.Expected <= 0 {
		return 100
	}
	pct := float64(p.Attempted) * 100 / float64(p.Expected)
	if pct > 100 {
		return 100
	}
	return pct
}
