package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// SearchScope narrows the notes the search primitive looks at. It has no
// notion of a reporting period; callers filter by date themselves.
type SearchScope struct {
	CalendarOnly bool
	Include      []string
	Exclude      []string
}

// CandidateLine is one line containing the searched term.
type CandidateLine struct {
	Content string
	Note    NoteRef
	// Line is the 1-based line number within the note, front matter included.
	Line int
}

// Search returns every line containing term, compared case-insensitively,
// across the notes in scope. Notes are visited newest first and lines keep
// their order within a note. The corpus is never modified.
func (s *Store) Search(ctx context.Context, term string, scope SearchScope) ([]CandidateLine, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, nil
	}

	refs, err := s.list(ctx, scope)
	if err != nil {
		return nil, err
	}

	var matches []CandidateLine
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(ref.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("search: reading %s: %w", ref.Filename, err)
		}

		offset := strings.Count(string(data[:bodyOffset(data)]), "\n")
		body := string(data[bodyOffset(data):])
		for i, line := range splitLines(body) {
			if !strings.Contains(strings.ToLower(line), needle) {
				continue
			}
			matches = append(matches, CandidateLine{
				Content: line,
				Note:    ref,
				Line:    offset + i + 1,
			})
		}
	}
	return matches, nil
}

func splitLines(content string) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
