package destination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Paintersrp/periodsearch/internal/logger"
	"github.com/Paintersrp/periodsearch/internal/mirror"
	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
	"github.com/Paintersrp/periodsearch/internal/report"
)

// NoteWriter is the subset of the note store the router mutates.
type NoteWriter interface {
	VaultDir() string
	ReplaceSection(path, match, headingText string, level int, body string) error
	WriteByTitle(folder, title, content string) (notes.NoteRef, bool, error)
}

// Opener surfaces a written note to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Settings carries the report settings the router needs.
type Settings struct {
	HeadingLevel  int
	FolderToStore string
	SearchHeading string
	OpenResults   bool
}

// Router sends records to a Destination. Opener, Mirror and Render are
// optional.
type Router struct {
	Store    NoteWriter
	Opener   Opener
	Mirror   mirror.Uploader
	Log      *logger.Logger
	Render   func(markdown string) (string, error)
	Settings Settings
	Now      func() time.Time
}

// Request is one dispatch. RawTerms is the term input as the user typed it.
type Request struct {
	Destination Destination
	RawTerms    string
	Interval    period.Interval
	CurrentNote *notes.NoteRef
	Records     []report.Record
}

// Outcome describes what a dispatch wrote.
type Outcome struct {
	Destination    Destination
	Note           *notes.NoteRef
	Created        bool
	Opened         bool
	Callback       string
	MirrorLocation string
}

func (r *Router) Dispatch(ctx context.Context, req Request) (*Outcome, error) {
	switch req.Destination {
	case Current:
		return r.writeCurrent(req)
	case NewNote:
		return r.writeNewNote(ctx, req)
	case Log:
		return r.writeLog(req)
	case Cancel:
		r.Log.Infof("cancelled, %d result sets discarded", len(req.Records))
		return &Outcome{Destination: Cancel}, nil
	default:
		return nil, &UnrecognizedDestinationError{Code: string(req.Destination)}
	}
}

func (r *Router) writeCurrent(req Request) (*Outcome, error) {
	if req.CurrentNote == nil || req.CurrentNote.Path == "" {
		return nil, &DestinationWriteError{Destination: Current, Err: errors.New("no current note")}
	}

	path := req.CurrentNote.Path
	for _, rec := range req.Records {
		err := r.Store.ReplaceSection(path, rec.SearchTerm, rec.Heading(req.Interval), r.headingLevel(), strings.Join(rec.ResultLines, "\n"))
		if err != nil {
			return nil, &DestinationWriteError{Destination: Current, Path: path, Err: err}
		}
	}

	r.Log.Infof("added %d results to %s", report.Total(req.Records), req.CurrentNote.Filename)
	return &Outcome{Destination: Current, Note: req.CurrentNote}, nil
}

func (r *Router) writeNewNote(ctx context.Context, req Request) (*Outcome, error) {
	title := NoteTitle(req.RawTerms, r.Settings.SearchHeading, req.Interval)
	callback := CallbackURL(req.RawTerms, req.Interval)
	content := r.NoteContent(title, callback, req)

	ref, created, err := r.Store.WriteByTitle(r.Settings.FolderToStore, title, content)
	if err != nil {
		return nil, &DestinationWriteError{Destination: NewNote, Path: r.Settings.FolderToStore, Err: err}
	}

	out := &Outcome{Destination: NewNote, Note: &ref, Created: created, Callback: callback}
	verb := "updated"
	if created {
		verb = "created"
	}
	r.Log.Infof("%s %s with %d results", verb, ref.Filename, report.Total(req.Records))

	if r.Mirror != nil {
		loc, err := r.Mirror.Upload(ctx, ref.Filename, []byte(content))
		if err != nil {
			return nil, &DestinationWriteError{Destination: NewNote, Path: ref.Filename, Err: err}
		}
		out.MirrorLocation = loc
		r.Log.Debugf("mirrored %s to %s", ref.Filename, loc)
	}

	isCurrent := req.CurrentNote != nil && req.CurrentNote.Path == ref.Path
	if r.Settings.OpenResults && r.Opener != nil && !isCurrent {
		if err := r.Opener.Open(ctx, ref.Path); err != nil {
			r.Log.Warnf("could not open %s: %v", ref.Filename, err)
		} else {
			out.Opened = true
		}
	}
	return out, nil
}

func (r *Router) writeLog(req Request) (*Outcome, error) {
	var b strings.Builder
	marker := strings.Repeat("#", r.headingLevel())
	for _, rec := range req.Records {
		fmt.Fprintf(&b, "%s %s (%d results)\n", marker, rec.SearchTerm, rec.ResultCount)
		for _, line := range rec.ResultLines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	body := b.String()
	if r.Render != nil {
		rendered, err := r.Render(body)
		if err != nil {
			r.Log.Debugf("render failed, writing plain markdown: %v", err)
		} else {
			body = rendered
		}
	}

	r.Log.Infof("search results for %s", req.Interval.Describe())
	r.Log.Block(body)
	return &Outcome{Destination: Log}, nil
}

// NoteTitle is the title of the saved report note.
func NoteTitle(rawTerms, searchHeading string, iv period.Interval) string {
	heading := strings.TrimSpace(searchHeading)
	if heading == "" {
		heading = "Search Results"
	}
	return fmt.Sprintf("%s %s for %s", strings.TrimSpace(rawTerms), heading, iv.Describe())
}

// NoteContent renders the full body of a saved report note.
func (r *Router) NoteContent(title, callback string, req Request) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "at %s [Click to refresh these results](%s)\n", now().Format("2006-01-02 15:04"), callback)

	marker := strings.Repeat("#", r.headingLevel())
	for _, rec := range req.Records {
		fmt.Fprintf(&b, "\n%s %s\n", marker, rec.Heading(req.Interval))
		for _, line := range rec.ResultLines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (r *Router) headingLevel() int {
	if r.Settings.HeadingLevel < 1 {
		return 2
	}
	return r.Settings.HeadingLevel
}
