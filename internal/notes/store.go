package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// NoteRef identifies a note on disk. Calendar notes carry the date encoded in
// their filename; other notes are identified by title.
type NoteRef struct {
	Path     string
	Filename string
	Title    string
	Date     time.Time
	Dated    bool
}

// Store is the vault-backed note corpus. It serves the read-only search
// primitive as well as the few mutations a report destination needs.
type Store struct {
	vault       string
	calendarDir string
}

// NewStore returns a store rooted at vault. When calendarDir is non-empty,
// calendar notes are only looked for beneath that vault-relative folder.
func NewStore(vault, calendarDir string) *Store {
	return &Store{
		vault:       NormalizePath(vault),
		calendarDir: strings.Trim(filepath.ToSlash(strings.TrimSpace(calendarDir)), "/"),
	}
}

func (s *Store) VaultDir() string {
	return s.vault
}

// ListCalendarNotes returns every dated note outside the excluded folders,
// newest first.
func (s *Store) ListCalendarNotes(ctx context.Context, exclude []string) ([]NoteRef, error) {
	return s.list(ctx, SearchScope{CalendarOnly: true, Exclude: exclude})
}

// ListNotes returns all notes matching scope, newest dated notes first and
// undated notes afterwards in path order.
func (s *Store) ListNotes(ctx context.Context, scope SearchScope) ([]NoteRef, error) {
	return s.list(ctx, scope)
}

func (s *Store) list(ctx context.Context, scope SearchScope) ([]NoteRef, error) {
	if strings.TrimSpace(s.vault) == "" {
		return nil, errors.New("vault directory is not configured")
	}

	root := s.vault
	if scope.CalendarOnly && s.calendarDir != "" {
		root = filepath.Join(s.vault, filepath.FromSlash(s.calendarDir))
	}

	refs := make([]NoteRef, 0)
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if path != root && s.excluded(path, scope.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != ".md" {
			return nil
		}
		if !s.included(path, scope.Include) {
			return nil
		}

		ref := s.refFor(path)
		if scope.CalendarOnly && !ref.Dated {
			return nil
		}
		refs = append(refs, ref)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []NoteRef{}, nil
		}
		return nil, err
	}

	sortByRecency(refs)
	return refs, nil
}

// Resolve finds a note by absolute path, vault-relative path, or title.
func (s *Store) Resolve(ctx context.Context, query string) (NoteRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return NoteRef{}, errors.New("no note given")
	}

	candidates := []string{query}
	if !filepath.IsAbs(query) {
		candidates = append(candidates, filepath.Join(s.vault, filepath.FromSlash(query)))
		if filepath.Ext(query) != ".md" {
			candidates = append(candidates, filepath.Join(s.vault, filepath.FromSlash(query)+".md"))
		}
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return s.refFor(NormalizePath(candidate)), nil
		}
	}

	all, err := s.ListNotes(ctx, SearchScope{})
	if err != nil {
		return NoteRef{}, err
	}
	for _, ref := range all {
		if strings.EqualFold(ref.Title, query) {
			return ref, nil
		}
	}
	return NoteRef{}, fmt.Errorf("note %q not found in %s", query, s.vault)
}

func (s *Store) refFor(path string) NoteRef {
	rel, err := VaultRelative(s.vault, path)
	if err != nil {
		rel = filepath.ToSlash(path)
	}

	ref := NoteRef{Path: path, Filename: rel}
	if date, ok := DateFromFilename(filepath.Base(path)); ok {
		ref.Date = date
		ref.Dated = true
		ref.Title = date.Format("2006-01-02")
		return ref
	}

	content, err := os.ReadFile(path)
	if err != nil {
		ref.Title = stem(path)
		return ref
	}
	ref.Title = TitleOf(path, content)
	return ref
}

func (s *Store) excluded(path string, exclude []string) bool {
	if len(exclude) == 0 {
		return false
	}
	rel, err := VaultRelative(s.vault, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		for _, ignored := range exclude {
			ignored = strings.Trim(strings.TrimSpace(ignored), "/")
			if ignored == "" {
				continue
			}
			if strings.EqualFold(segment, ignored) {
				return true
			}
			if strings.Contains(ignored, "/") && strings.HasPrefix(strings.ToLower(rel), strings.ToLower(ignored)) {
				return true
			}
		}
	}
	return false
}

func (s *Store) included(path string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	rel, err := VaultRelative(s.vault, path)
	if err != nil {
		return false
	}
	lowered := strings.ToLower(rel)
	for _, folder := range include {
		folder = strings.ToLower(strings.Trim(strings.TrimSpace(folder), "/"))
		if folder == "" {
			continue
		}
		if strings.HasPrefix(lowered, folder+"/") {
			return true
		}
	}
	return false
}

func sortByRecency(refs []NoteRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Dated != b.Dated {
			return a.Dated
		}
		if a.Dated && !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Filename < b.Filename
	})
}
