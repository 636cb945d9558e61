package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
)

func january(t *testing.T) period.Interval {
	t.Helper()
	iv, err := period.Resolve("2024-01-01", "2024-01-31", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return iv
}

func calendarRef(filename string) notes.NoteRef {
	date, ok := notes.DateFromFilename(filename)
	return notes.NoteRef{Path: "/vault/" + filename, Filename: filename, Date: date, Dated: ok, Title: date.Format("2006-01-02")}
}

func candidate(filename, content string) notes.CandidateLine {
	return notes.CandidateLine{Content: content, Note: calendarRef(filename)}
}

func plainOptions() Options {
	return Options{
		HeadingLevel:       2,
		ResultPrefix:       "- ",
		GroupResultsByNote: true,
		DateStyle:          "link",
	}
}

func TestIsTermInURL(t *testing.T) {
	assert.True(t, IsTermInURL("foo", "See http://example.com/foo for details"))
	assert.True(t, IsTermInURL("FOO", "See https://example.com/foo?x=1 for details"))
	assert.False(t, IsTermInURL("foo", "foo lives at http://example.com/foo"))
	assert.False(t, IsTermInURL("foo", "See [foo](http://x)"))
	assert.False(t, IsTermInURL("foo", "no links about foo here"))
}

func TestIsTermInMarkdownPath(t *testing.T) {
	assert.True(t, IsTermInMarkdownPath("foo", "See [notes](docs/foo.md)"))
	assert.True(t, IsTermInMarkdownPath("foo", "![diagram](img/foo.png)"))
	assert.False(t, IsTermInMarkdownPath("foo", "See [foo](http://x)"))
	assert.False(t, IsTermInMarkdownPath("foo", "See [foo](docs/foo.md)"))
	assert.False(t, IsTermInMarkdownPath("foo", "plain foo text"))
}

func TestExcludeOrder(t *testing.T) {
	iv := january(t)

	reason, skip := Exclude(candidate("20240301.md", "foo"), "foo", iv)
	assert.True(t, skip)
	assert.Equal(t, ReasonOutsidePeriod, reason)

	reason, skip = Exclude(candidate("20240105.md", "See http://example.com/foo for details"), "foo", iv)
	assert.True(t, skip)
	assert.Equal(t, ReasonInURL, reason)

	reason, skip = Exclude(candidate("20240105.md", "See [doc](notes/foo.md)"), "foo", iv)
	assert.True(t, skip)
	assert.Equal(t, ReasonInLinkPath, reason)

	_, skip = Exclude(candidate("20240105.md", "See [foo](http://x)"), "foo", iv)
	assert.False(t, skip)

	_, skip = Exclude(notes.CandidateLine{Content: "foo", Note: notes.NoteRef{Filename: "ideas.md", Title: "Ideas"}}, "foo", iv)
	assert.True(t, skip)
}

func TestFilterAndFormatDropsOutOfRangeNotes(t *testing.T) {
	cands := []notes.CandidateLine{
		candidate("20240220.md", "urgent later"),
		candidate("20240115.md", "urgent one"),
		candidate("20240110.md", "urgent two"),
	}

	lines, count := FilterAndFormat(cands, "urgent", january(t), plainOptions())
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{
		"### [[2024-01-15]]:",
		"- urgent one",
		"### [[2024-01-10]]:",
		"- urgent two",
	}, lines)
}

func TestFilterAndFormatGroupsConsecutiveMatchesOnly(t *testing.T) {
	cands := []notes.CandidateLine{
		candidate("20240115.md", "urgent a"),
		candidate("20240115.md", "urgent b"),
		candidate("20240110.md", "urgent c"),
		candidate("20240115.md", "urgent d"),
	}

	lines, count := FilterAndFormat(cands, "urgent", january(t), plainOptions())
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{
		"### [[2024-01-15]]:",
		"- urgent a",
		"- urgent b",
		"### [[2024-01-10]]:",
		"- urgent c",
		"### [[2024-01-15]]:",
		"- urgent d",
	}, lines)
}

func TestFilterAndFormatSkippedLineDoesNotResetGrouping(t *testing.T) {
	cands := []notes.CandidateLine{
		candidate("20240115.md", "urgent a"),
		candidate("20240115.md", "http://example.com/urgent"),
		candidate("20240115.md", "urgent b"),
	}

	var skipped []Reason
	opts := plainOptions()
	opts.OnSkip = func(_ notes.CandidateLine, reason Reason) { skipped = append(skipped, reason) }

	lines, count := FilterAndFormat(cands, "urgent", january(t), opts)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"### [[2024-01-15]]:", "- urgent a", "- urgent b"}, lines)
	assert.Equal(t, []Reason{ReasonInURL}, skipped)
}

func TestFilterAndFormatFlatListSuffixesTitle(t *testing.T) {
	opts := plainOptions()
	opts.GroupResultsByNote = false
	opts.DateStyle = "at"

	lines, count := FilterAndFormat([]notes.CandidateLine{candidate("20240115.md", "  - urgent call  ")}, "urgent", january(t), opts)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"- urgent call (from @2024-01-15)"}, lines)
}

func TestFilterAndFormatEmptyResults(t *testing.T) {
	opts := plainOptions()

	lines, count := FilterAndFormat(nil, "urgent", january(t), opts)
	assert.Zero(t, count)
	assert.Empty(t, lines)

	opts.ShowEmptyResults = true
	lines, count = FilterAndFormat([]notes.CandidateLine{candidate("20240301.md", "urgent")}, "urgent", january(t), opts)
	assert.Zero(t, count)
	assert.Equal(t, []string{NoMatchesLine}, lines)
}

func TestTrimAndHighlight(t *testing.T) {
	assert.Equal(t, "call ==Bob== today", TrimAndHighlight("- [ ] call Bob today", "bob", true, "", 0))
	assert.Equal(t, "call **Bob** about **bob**", TrimAndHighlight("* call Bob about bob", "bob", true, "**", 0))
	assert.Equal(t, "heading urgent", TrimAndHighlight("## heading urgent", "urgent", false, "", 0))
	assert.Equal(t, "quoted urgent", TrimAndHighlight("> quoted urgent", "urgent", false, "", 0))
}

func TestTrimAndHighlightShortensAroundMatch(t *testing.T) {
	line := strings.Repeat("a", 50) + " target " + strings.Repeat("b", 50)
	got := TrimAndHighlight(line, "target", false, "", 20)

	assert.True(t, strings.HasPrefix(got, "..."), got)
	assert.True(t, strings.HasSuffix(got, "..."), got)
	assert.Contains(t, got, "target")
	assert.LessOrEqual(t, len([]rune(got)), 26)

	start := TrimAndHighlight("target "+strings.Repeat("b", 50), "target", true, "==", 10)
	assert.Equal(t, "==target== bbb...", start)

	end := TrimAndHighlight(strings.Repeat("a", 50)+" target", "target", false, "", 10)
	assert.Equal(t, "...aaa target", end)
}

func TestDisplayTitle(t *testing.T) {
	ref := calendarRef("20240105.md")
	assert.Equal(t, "[[2024-01-05]]", DisplayTitle(ref, "link"))
	assert.Equal(t, "@2024-01-05", DisplayTitle(ref, "at"))
	assert.Equal(t, ">2024-01-05", DisplayTitle(ref, "scheduled"))
	assert.Equal(t, "2024-01-05", DisplayTitle(ref, "date"))
	assert.Equal(t, "[[Project Plan]]", DisplayTitle(notes.NoteRef{Title: "Project Plan"}, "link"))
}

func TestAggregateAndHeading(t *testing.T) {
	iv := january(t)
	cands := []notes.CandidateLine{
		candidate("20240115.md", "urgent one"),
		candidate("20240301.md", "urgent out"),
	}

	rec := Aggregate("urgent", cands, iv, plainOptions())
	assert.Equal(t, "urgent", rec.SearchTerm)
	assert.Equal(t, 1, rec.ResultCount)
	assert.Equal(t, "urgent (1 results) for 2024-01-01 - 2024-01-31", rec.Heading(iv))
	assert.Equal(t, 3, Total([]Record{rec, {ResultCount: 2}}))
}
