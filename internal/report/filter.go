package report

import (
	"regexp"

	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
)

// Reason explains why a candidate line was dropped.
type Reason string

const (
	ReasonOutsidePeriod Reason = "outside period"
	ReasonInURL         Reason = "in a URL"
	ReasonInLinkPath    Reason = "in a [...](path)"
)

var (
	urlPattern      = regexp.MustCompile(`(?i)\bhttps?://[^\s<>()\[\]]+(?:\([^\s<>()]*\)[^\s<>()\[\]]*)*`)
	linkPathPattern = regexp.MustCompile(`!?\[[^\]]*\]\(([^)]*)\)`)
)

// IsTermInURL reports whether every occurrence of term in line sits inside an
// http(s) URL.
func IsTermInURL(term, line string) bool {
	return occursOnlyWithin(term, line, urlPattern.FindAllStringIndex(line, -1))
}

// IsTermInMarkdownPath reports whether every occurrence of term in line sits
// inside the (path) part of a [label](path) link.
func IsTermInMarkdownPath(term, line string) bool {
	var spans [][]int
	for _, m := range linkPathPattern.FindAllStringSubmatchIndex(line, -1) {
		spans = append(spans, []int{m[2], m[3]})
	}
	return occursOnlyWithin(term, line, spans)
}

// Exclude runs the interval re-check and noise heuristics for one candidate.
func Exclude(c notes.CandidateLine, term string, iv period.Interval) (Reason, bool) {
	date, ok := notes.DateFromFilename(c.Note.Filename)
	if !ok || !iv.Contains(date) {
		return ReasonOutsidePeriod, true
	}
	if IsTermInURL(term, c.Content) {
		return ReasonInURL, true
	}
	if IsTermInMarkdownPath(term, c.Content) {
		return ReasonInLinkPath, true
	}
	return "", false
}

func occursOnlyWithin(term, line string, spans [][]int) bool {
	if term == "" || len(spans) == 0 {
		return false
	}
	matches := termPattern(term).FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return false
	}

	for _, m := range matches {
		inside := false
		for _, span := range spans {
			if m[0] >= span[0] && m[1] <= span[1] {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
}
