package notes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNote(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readNote(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDateFromFilename(t *testing.T) {
	want := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	for _, name := range []string{"20240105.md", "2024-01-05.md", "day-20240105.md", "calendar/20240105.md"} {
		got, ok := DateFromFilename(name)
		require.True(t, ok, name)
		assert.True(t, want.Equal(got), name)
	}

	for _, name := range []string{"meeting.md", "2024010.md", "20241305.md", "week-20240105.md"} {
		_, ok := DateFromFilename(name)
		assert.False(t, ok, name)
	}
}

func TestListCalendarNotesSkipsUndatedAndExcluded(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "calendar/20240103.md", "three")
	writeNote(t, dir, "calendar/2024-01-10.md", "ten")
	writeNote(t, dir, "atoms/day-20240105.md", "five")
	writeNote(t, dir, "archive/20240101.md", "archived")
	writeNote(t, dir, ".obsidian/20240102.md", "hidden")
	writeNote(t, dir, "projects/roadmap.md", "# Roadmap")

	store := NewStore(dir, "")
	refs, err := store.ListCalendarNotes(context.Background(), []string{"archive"})
	require.NoError(t, err)

	var names []string
	for _, ref := range refs {
		names = append(names, ref.Filename)
		assert.True(t, ref.Dated)
	}
	assert.Equal(t, []string{"calendar/2024-01-10.md", "atoms/day-20240105.md", "calendar/20240103.md"}, names)
	assert.Equal(t, "2024-01-10", refs[0].Title)
}

func TestListCalendarNotesHonoursCalendarDir(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "Calendar/20240103.md", "inside")
	writeNote(t, dir, "atoms/day-20240105.md", "outside")

	refs, err := NewStore(dir, "Calendar").ListCalendarNotes(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Calendar/20240103.md", refs[0].Filename)
}

func TestListCalendarNotesMissingCalendarDir(t *testing.T) {
	refs, err := NewStore(t.TempDir(), "Calendar").ListCalendarNotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestSearchOrdersByRecencyAndIgnoresCase(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "20240102.md", "---\ntitle: urgent front matter\n---\nfirst URGENT thing\nnothing here\nanother urgent one")
	writeNote(t, dir, "20240220.md", "later urgent")
	writeNote(t, dir, "trash/20240301.md", "urgent but trashed")
	writeNote(t, dir, "ideas.md", "urgent undated idea")

	store := NewStore(dir, "")
	got, err := store.Search(context.Background(), "Urgent", SearchScope{CalendarOnly: true, Exclude: []string{"trash"}})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "later urgent", got[0].Content)
	assert.Equal(t, "20240220.md", got[0].Note.Filename)
	assert.Equal(t, "first URGENT thing", got[1].Content)
	assert.Equal(t, 4, got[1].Line)
	assert.Equal(t, "another urgent one", got[2].Content)
	assert.Equal(t, 6, got[2].Line)
}

func TestSearchWithoutCalendarScopeIncludesUndatedNotes(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "20240102.md", "urgent dated")
	writeNote(t, dir, "projects/ideas.md", "# Ideas\nurgent undated")

	got, err := NewStore(dir, "").Search(context.Background(), "urgent", SearchScope{Include: []string{"projects"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Note.Dated)
	assert.Equal(t, "Ideas", got[0].Note.Title)
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "20240102.md", "urgent")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore(dir, "").Search(ctx, "urgent", SearchScope{CalendarOnly: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTitleOfPrefersFrontMatterThenHeading(t *testing.T) {
	assert.Equal(t, "From Meta", TitleOf("a.md", []byte("---\ntitle: From Meta\n---\n# Heading\n")))
	assert.Equal(t, "Heading", TitleOf("a.md", []byte("intro\n\n# Heading\n")))
	assert.Equal(t, "Setext", TitleOf("a.md", []byte("Setext\n======\n")))
	assert.Equal(t, "plain-name", TitleOf("dir/plain-name.md", []byte("no headings")))
}

func TestResolveByPathAndTitle(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "projects/plan.md", "# Master Plan\n")
	store := NewStore(dir, "")
	ctx := context.Background()

	for _, query := range []string{path, "projects/plan.md", "projects/plan", "master plan"} {
		ref, err := store.Resolve(ctx, query)
		require.NoError(t, err, query)
		assert.Equal(t, path, ref.Path, query)
	}

	_, err := store.Resolve(ctx, "missing")
	assert.Error(t, err)
}

func TestReplaceSectionReplacesMatchingBlock(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "current.md", "# Today\n\n## urgent (1 results) for old\n- stale\n### [[2023-01-01]]:\n- stale too\n\n## other notes\nkeep me\n")

	store := NewStore(dir, "")
	require.NoError(t, store.ReplaceSection(path, "urgent", "urgent (2 results) for new", 2, "- one\n- two"))

	assert.Equal(t,
		"# Today\n\n## urgent (2 results) for new\n- one\n- two\n\n## other notes\nkeep me\n",
		readNote(t, path))
}

func TestReplaceSectionAppendsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "current.md", "# Today\nurgently needs attention")

	store := NewStore(dir, "")
	require.NoError(t, store.ReplaceSection(path, "urgent", "urgent (1 results) for p", 2, "- line"))

	assert.Equal(t, "# Today\nurgently needs attention\n\n## urgent (1 results) for p\n- line\n", readNote(t, path))
}

func TestReplaceSectionDoesNotMatchLongerWords(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "current.md", "## urgently (3 results) for p\n- keep\n")

	store := NewStore(dir, "")
	require.NoError(t, store.ReplaceSection(path, "urgent", "urgent (0 results) for p", 2, ""))

	assert.Equal(t, "## urgently (3 results) for p\n- keep\n\n## urgent (0 results) for p\n", readNote(t, path))
}

func TestReplaceSectionKeepsTermsThatShareAPrefix(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "current.md", "# Current\n")

	store := NewStore(dir, "")
	require.NoError(t, store.ReplaceSection(path, "urgent call", "urgent call (1 results) for p", 2, "- call"))
	require.NoError(t, store.ReplaceSection(path, "urgent", "urgent (2 results) for p", 2, "- one\n- two"))

	assert.Equal(t,
		"# Current\n\n## urgent call (1 results) for p\n- call\n\n## urgent (2 results) for p\n- one\n- two\n",
		readNote(t, path))

	require.NoError(t, store.ReplaceSection(path, "urgent", "urgent (1 results) for q", 2, "- one"))
	assert.Equal(t,
		"# Current\n\n## urgent call (1 results) for p\n- call\n\n## urgent (1 results) for q\n- one\n",
		readNote(t, path))
}

func TestReplaceSectionMatchesMultibyteTerms(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "current.md", "## Éclair (1 results) for p\n- old\n\n## éclairé (1 results) for p\n- keep\n")

	store := NewStore(dir, "")
	require.NoError(t, store.ReplaceSection(path, "éclair", "éclair (1 results) for q", 2, "- new"))

	assert.Equal(t,
		"## éclair (1 results) for q\n- new\n\n## éclairé (1 results) for p\n- keep\n",
		readNote(t, path))
}

func TestHeadingMatches(t *testing.T) {
	assert.True(t, headingMatches("urgent (3 results) for p", "urgent"))
	assert.True(t, headingMatches("URGENT (0 results) for p", "urgent"))
	assert.True(t, headingMatches("naïve (2 results) for p", "NAÏVE"))
	assert.False(t, headingMatches("urgent call (1 results) for p", "urgent"))
	assert.False(t, headingMatches("urgently (1 results) for p", "urgent"))
	assert.False(t, headingMatches("urgent notes", "urgent"))
	assert.False(t, headingMatches("urgent", "urgent"))
	assert.False(t, headingMatches("urg", "urgent"))
	assert.False(t, headingMatches("urgent (1 results)", ""))
}

func TestWriteByTitleCreatesThenReplaces(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "")

	ref, created, err := store.WriteByTitle("Searches", "urgent Search Results for 2024-01-01 - 2024-01-31", "# urgent Search Results for 2024-01-01 - 2024-01-31\nfirst\n")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Searches/urgent-search-results-for-2024-01-01-2024-01-31.md", ref.Filename)

	again, created, err := store.WriteByTitle("Searches", "urgent Search Results for 2024-01-01 - 2024-01-31", "# urgent Search Results for 2024-01-01 - 2024-01-31\nsecond\n")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, ref.Path, again.Path)
	assert.Equal(t, "# urgent Search Results for 2024-01-01 - 2024-01-31\nsecond\n", readNote(t, again.Path))
}

func TestSlugifyTitle(t *testing.T) {
	assert.Equal(t, "work-bob-search-results", SlugifyTitle("#work, @bob Search Results"))
	assert.Equal(t, "search-results", SlugifyTitle("!!!"))
}
