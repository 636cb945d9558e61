package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
)

// NoMatchesLine is emitted for a term with no surviving lines when empty
// results are shown.
const NoMatchesLine = "(no matches)"

const ellipsis = "..."

var leadingMarkerPattern = regexp.MustCompile(`^(?:[-*+]\s+(?:\[[ xX>\-]\]\s+)?|\d+[.)]\s+|#{1,6}\s+|>\s*)`)

// Options controls how surviving lines are shaped.
type Options struct {
	HeadingLevel       int
	HighlightResults   bool
	HighlightMarker    string
	ResultQuoteLength  int
	GroupResultsByNote bool
	ResultPrefix       string
	ShowEmptyResults   bool
	DateStyle          string

	// OnSkip, when set, is told about every dropped candidate.
	OnSkip func(c notes.CandidateLine, reason Reason)
}

// FilterAndFormat drops noise candidates and renders the rest in input order.
// The returned count is the number of candidates kept.
func FilterAndFormat(cands []notes.CandidateLine, term string, iv period.Interval, opts Options) ([]string, int) {
	lines := make([]string, 0, len(cands))
	count := 0
	previousTitle := ""

	for _, c := range cands {
		if reason, skip := Exclude(c, term, iv); skip {
			if opts.OnSkip != nil {
				opts.OnSkip(c, reason)
			}
			continue
		}

		matchLine := TrimAndHighlight(c.Content, term, opts.HighlightResults, opts.HighlightMarker, opts.ResultQuoteLength)
		title := DisplayTitle(c.Note, opts.DateStyle)

		if opts.GroupResultsByNote {
			if title != previousTitle {
				lines = append(lines, fmt.Sprintf("%s %s:", headingMarker(opts.HeadingLevel+1), title))
			}
			lines = append(lines, opts.ResultPrefix+matchLine)
		} else {
			lines = append(lines, fmt.Sprintf("%s%s (from %s)", opts.ResultPrefix, matchLine, title))
		}

		count++
		previousTitle = title
	}

	if count == 0 && opts.ShowEmptyResults {
		lines = append(lines, NoMatchesLine)
	}
	return lines, count
}

// TrimAndHighlight strips surrounding whitespace and any leading list, task,
// heading or quote marker, shortens the line to quoteLength runes around the
// first match, and wraps every match in marker when highlight is set.
func TrimAndHighlight(line, term string, highlight bool, marker string, quoteLength int) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSpace(leadingMarkerPattern.ReplaceAllString(trimmed, ""))

	pattern := termPattern(term)
	if quoteLength > 0 && utf8.RuneCountInString(trimmed) > quoteLength {
		trimmed = shorten(trimmed, pattern.FindStringIndex(trimmed), quoteLength)
	}

	if highlight && term != "" {
		if marker == "" {
			marker = "=="
		}
		trimmed = pattern.ReplaceAllStringFunc(trimmed, func(m string) string {
			return marker + m + marker
		})
	}
	return trimmed
}

func shorten(line string, match []int, quoteLength int) string {
	runes := []rune(line)

	start := 0
	if match != nil {
		matchStart := utf8.RuneCountInString(line[:match[0]])
		matchLen := utf8.RuneCountInString(line[match[0]:match[1]])
		start = matchStart - (quoteLength-matchLen)/2
	}
	if start+quoteLength > len(runes) {
		start = len(runes) - quoteLength
	}
	if start < 0 {
		start = 0
	}
	end := start + quoteLength

	out := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		out = ellipsis + out
	}
	if end < len(runes) {
		out += ellipsis
	}
	return out
}

// DisplayTitle renders how a note is named in report lines: the formatted
// date for calendar notes, a wiki link for everything else.
func DisplayTitle(ref notes.NoteRef, dateStyle string) string {
	if !ref.Dated {
		return fmt.Sprintf("[[%s]]", ref.Title)
	}
	return FormatNoteDate(ref.Date, dateStyle)
}

// FormatNoteDate renders a calendar note date in one of the supported styles.
func FormatNoteDate(date time.Time, style string) string {
	iso := date.Format("2006-01-02")
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "at":
		return "@" + iso
	case "scheduled":
		return ">" + iso
	case "date":
		return iso
	default:
		return "[[" + iso + "]]"
	}
}

func headingMarker(level int) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level)
}
