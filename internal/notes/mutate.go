package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9\-]+`)

const maxFilenameLength = 120

// ReplaceSection rewrites the section of the note at path whose heading, at
// the given level, is the results heading for match, or appends a new section
// when none exists. A section runs until the next heading of the same or a
// higher level.
func (s *Store) ReplaceSection(path, match, headingText string, level int, body string) error {
	if level < 1 {
		level = 1
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	section := fmt.Sprintf("%s %s\n", strings.Repeat("#", level), headingText)
	if trimmed := strings.TrimRight(body, "\n"); trimmed != "" {
		section += trimmed + "\n"
	}

	offset := bodyOffset(data)
	headings := scanHeadings(data[offset:])

	for i, h := range headings {
		if h.Level != level || !headingMatches(h.Text, match) {
			continue
		}

		start := offset + h.Start
		end := len(data)
		for _, next := range headings[i+1:] {
			if next.Level <= h.Level {
				end = offset + next.Start
				break
			}
		}

		tail := string(data[end:])
		if tail != "" && !strings.HasSuffix(section, "\n\n") {
			section += "\n"
		}
		updated := string(data[:start]) + section + tail
		return os.WriteFile(path, []byte(updated), 0o644)
	}

	content := string(data)
	switch {
	case content == "":
	case strings.HasSuffix(content, "\n\n"):
	case strings.HasSuffix(content, "\n"):
		content += "\n"
	default:
		content += "\n\n"
	}
	return os.WriteFile(path, []byte(content+section), 0o644)
}

var resultCountSuffix = regexp.MustCompile(`^ \(\d+ results\)`)

// headingMatches reports whether headingText is a results heading for the
// term match, written as "<term> (<n> results)...".
func headingMatches(headingText, match string) bool {
	match = strings.TrimSpace(match)
	if match == "" {
		return false
	}
	rest, ok := cutPrefixFold(headingText, match)
	return ok && resultCountSuffix.MatchString(rest)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	for _, want := range prefix {
		got, size := utf8.DecodeRuneInString(s)
		if size == 0 || !strings.EqualFold(string(got), string(want)) {
			return "", false
		}
		s = s[size:]
	}
	return s, true
}

// FindByTitle looks for a note with the given title inside the vault-relative
// folder. Multiple matches resolve to the first in path order.
func (s *Store) FindByTitle(folder, title string) (NoteRef, bool, error) {
	dir := filepath.Join(s.vault, filepath.FromSlash(strings.Trim(folder, "/")))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NoteRef{}, false, nil
		}
		return NoteRef{}, false, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if TitleOf(path, content) == title {
			ref := s.refFor(path)
			ref.Title = title
			return ref, true, nil
		}
	}
	return NoteRef{}, false, nil
}

// WriteByTitle replaces the entire content of the note titled title in folder,
// creating the folder and note when missing. It reports whether a new note
// was created.
func (s *Store) WriteByTitle(folder, title, content string) (NoteRef, bool, error) {
	ref, found, err := s.FindByTitle(folder, title)
	if err != nil {
		return NoteRef{}, false, err
	}

	if !found {
		dir := filepath.Join(s.vault, filepath.FromSlash(strings.Trim(folder, "/")))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NoteRef{}, false, err
		}
		path := filepath.Join(dir, SlugifyTitle(title)+".md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return NoteRef{}, false, err
		}
		created := s.refFor(path)
		created.Title = title
		return created, true, nil
	}

	if err := os.WriteFile(ref.Path, []byte(content), 0o644); err != nil {
		return NoteRef{}, false, err
	}
	return ref, false, nil
}

// SlugifyTitle derives a filesystem-safe filename stem from a note title.
func SlugifyTitle(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.ReplaceAll(name, " ", "-")
	name = filenameSanitizer.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	if len(name) > maxFilenameLength {
		name = strings.TrimRight(name[:maxFilenameLength], "-")
	}
	if name == "" {
		name = "search-results"
	}
	return name
}
