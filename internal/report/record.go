package report

import (
	"fmt"

	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
)

// Record is the per-term outcome of a search run.
type Record struct {
	SearchTerm  string
	ResultLines []string
	ResultCount int
}

// Aggregate filters and formats the candidates found for one term.
func Aggregate(term string, cands []notes.CandidateLine, iv period.Interval, opts Options) Record {
	lines, count := FilterAndFormat(cands, term, iv, opts)
	return Record{SearchTerm: term, ResultLines: lines, ResultCount: count}
}

// Heading is the section heading text for the record, without the leading
// markdown marker.
func (r Record) Heading(iv period.Interval) string {
	return fmt.Sprintf("%s (%d results) for %s", r.SearchTerm, r.ResultCount, iv.Describe())
}

// Total sums the result counts across records.
func Total(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.ResultCount
	}
	return total
}
