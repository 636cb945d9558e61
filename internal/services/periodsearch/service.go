// Package periodsearch runs a bounded-period search over calendar notes and
// hands the aggregated results to a destination.
package periodsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Paintersrp/periodsearch/internal/config"
	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/logger"
	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
	"github.com/Paintersrp/periodsearch/internal/prompt"
	"github.com/Paintersrp/periodsearch/internal/report"
	"github.com/Paintersrp/periodsearch/internal/terms"
)

// Corpus is the read-only note store the search runs against.
type Corpus interface {
	ListCalendarNotes(ctx context.Context, exclude []string) ([]notes.NoteRef, error)
	Search(ctx context.Context, term string, scope notes.SearchScope) ([]notes.CandidateLine, error)
}

// Dispatcher delivers records to a destination.
type Dispatcher interface {
	Dispatch(ctx context.Context, req destination.Request) (*destination.Outcome, error)
}

type Service struct {
	corpus   Corpus
	router   Dispatcher
	prompter prompt.Prompter
	log      *logger.Logger
	settings config.SearchConfig
	now      func() time.Time
}

// NewService wires a search service. A nil prompter makes every run
// non-interactive.
func NewService(corpus Corpus, router Dispatcher, p prompt.Prompter, log *logger.Logger, settings config.SearchConfig) *Service {
	return &Service{
		corpus:   corpus,
		router:   router,
		prompter: p,
		log:      log,
		settings: settings,
		now:      time.Now,
	}
}

// Request holds what the caller supplied. Empty fields are resolved from
// settings or by prompting.
type Request struct {
	Terms       string
	From        string
	To          string
	Destination string
	CurrentNote *notes.NoteRef

	// Label and SubLabel, when set, replace the labels derived from From and
	// To so a refreshed report keeps its original title.
	Label    string
	SubLabel string
}

// Result is everything one run produced.
type Result struct {
	Interval period.Interval
	Terms    []terms.Term
	Records  []report.Record
	Outcome  *destination.Outcome
}

// Run executes the pipeline: resolve the period and terms, confirm the period
// holds calendar notes, search each term in order, then dispatch once.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if s == nil || s.corpus == nil || s.router == nil {
		return nil, errors.New("period search service is not configured")
	}

	iv, err := s.resolvePeriod(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("period %s (%d days)", iv.Describe(), iv.Days())

	rawTerms, termsGiven, err := s.resolveTerms(ctx, req)
	if err != nil {
		return nil, err
	}
	validated, err := terms.Validate(rawTerms)
	if err != nil {
		s.log.Debugf("rejected terms %q: %v", rawTerms, err)
		return nil, err
	}

	if err := s.checkCorpus(ctx, iv); err != nil {
		if s.prompter != nil {
			s.prompter.ShowMessage("Nothing to search", err.Error())
		}
		return nil, err
	}

	records, err := s.Search(ctx, validated, iv)
	if err != nil {
		return nil, err
	}
	s.log.Infof("found %d results for %s over %s", report.Total(records), terms.Join(validated), iv.Describe())

	dest, err := s.chooseDestination(ctx, req, termsGiven)
	if err != nil {
		return nil, err
	}

	outcome, err := s.router.Dispatch(ctx, destination.Request{
		Destination: dest,
		RawTerms:    rawTerms,
		Interval:    iv,
		CurrentNote: req.CurrentNote,
		Records:     records,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Interval: iv, Terms: validated, Records: records, Outcome: outcome}, nil
}

// Search runs the corpus primitive once per term, sequentially, and folds the
// candidates into one record per term.
func (s *Service) Search(ctx context.Context, ts []terms.Term, iv period.Interval) ([]report.Record, error) {
	opts := ReportOptions(s.settings)
	opts.OnSkip = func(c notes.CandidateLine, reason report.Reason) {
		s.log.Debugf("skipped %s:%d (%s)", c.Note.Filename, c.Line, reason)
	}

	scope := notes.SearchScope{CalendarOnly: true, Exclude: s.settings.FoldersToExclude}
	records := make([]report.Record, 0, len(ts))
	for _, t := range ts {
		cands, err := s.corpus.Search(ctx, t.String(), scope)
		if err != nil {
			return nil, fmt.Errorf("searching for %q: %w", t, err)
		}
		rec := report.Aggregate(t.String(), cands, iv, opts)
		s.log.Debugf("%s (%s): %d candidates, %d kept", t, t.Kind(), len(cands), rec.ResultCount)
		records = append(records, rec)
	}
	return records, nil
}

// resolvePeriod prompts only for a bare invocation. Once any argument is
// given, missing bounds take their defaults.
func (s *Service) resolvePeriod(ctx context.Context, req Request) (period.Interval, error) {
	now := s.now()
	bare := strings.TrimSpace(req.Terms) == "" && strings.TrimSpace(req.From) == "" && strings.TrimSpace(req.To) == ""
	if bare && s.prompter != nil {
		return s.prompter.ChoosePeriod(ctx, now)
	}

	iv, err := period.Resolve(req.From, req.To, now)
	if err != nil {
		return period.Interval{}, err
	}
	if req.Label != "" {
		iv.Label = req.Label
		iv.SubLabel = req.SubLabel
	}
	return iv, nil
}

// resolveTerms reports whether the terms came from the caller rather than a
// prompt or the configured defaults.
func (s *Service) resolveTerms(ctx context.Context, req Request) (string, bool, error) {
	if strings.TrimSpace(req.Terms) != "" {
		return req.Terms, true, nil
	}
	if s.prompter != nil {
		raw, err := s.prompter.EnterTerms(ctx, s.settings.DefaultSearchTerms)
		return raw, false, err
	}
	if strings.TrimSpace(s.settings.DefaultSearchTerms) != "" {
		return s.settings.DefaultSearchTerms, false, nil
	}
	return "", false, &terms.ValidationError{Reason: "no search terms given"}
}

func (s *Service) checkCorpus(ctx context.Context, iv period.Interval) error {
	refs, err := s.corpus.ListCalendarNotes(ctx, s.settings.FoldersToExclude)
	if err != nil {
		return fmt.Errorf("listing calendar notes: %w", err)
	}

	inRange := 0
	for _, ref := range refs {
		if iv.Contains(ref.Date) {
			inRange++
		}
	}
	if inRange == 0 {
		return &EmptyCorpusError{Interval: iv}
	}
	s.log.Debugf("%d calendar notes in period", inRange)
	return nil
}

func (s *Service) chooseDestination(ctx context.Context, req Request, termsGiven bool) (destination.Destination, error) {
	if strings.TrimSpace(req.Destination) != "" {
		return destination.Parse(req.Destination)
	}
	if termsGiven || s.settings.AutoSave || s.prompter == nil {
		return destination.NewNote, nil
	}
	return s.prompter.ChooseDestination(ctx, destination.Options(req.CurrentNote != nil))
}
