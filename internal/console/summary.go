package console

import (
	"sort"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
)

// maxListedFailures keeps the console summary readable; the full list lives in the report file.
const maxListedFailures = 20

func (p *Printer) Summary(report model.Report) {
	p.Header("Reindex summary")
	p.KV("run", report.RunID)
	p.KV("index", report.Index)
	p.KV("expected", report.Expected)
	p.KV("attempted", report.Attempted)
	p.KV("succeeded", report.Succeeded)
	if report.IndexedCount == model.UnknownCount {
		p.KV("indexed", "unknown")
	} else {
		p.KV("indexed", report.IndexedCount)
	}
	p.KV("failed", report.FailedCount)
	p.KV("elapsed", report.Elapsed.Round(time.Millisecond))

	if len(report.Failures) > 0 {
		ids := make([]string, 0, len(report.Failures))
		for id := range report.Failures {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for i, id := range ids {
			if i == maxListedFailures {
				p.Warning("%d more failures not shown", len(ids)-maxListedFailures)
				break
			}
			p.Warning("record %s: %s", id, report.Failures[id])
		}
	}

	switch {
	case report.Complete():
		p.Success("all %d records indexed into %s", report.Expected, report.Index)
	case report.IndexedCount == model.UnknownCount:
		p.Warning("could not read the final document count of %s", report.Index)
	default:
		p.Warning("%s holds %d of %d expected records", report.Index, report.IndexedCount, report.Expected)
	}
}
