package prompt

import (
	"context"
	"time"

	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
)

// Scripted is a Prompter that replays fixed answers. Unset answers cancel.
type Scripted struct {
	Period      *period.Interval
	Terms       string
	Destination destination.Destination
	Note        *notes.NoteRef

	Asked    []string
	Messages []string
}

func (s *Scripted) ChoosePeriod(context.Context, time.Time) (period.Interval, error) {
	s.Asked = append(s.Asked, "period")
	if s.Period == nil {
		return period.Interval{}, ErrCancelled
	}
	return *s.Period, nil
}

func (s *Scripted) EnterTerms(_ context.Context, defaultTerms string) (string, error) {
	s.Asked = append(s.Asked, "terms")
	if s.Terms == "" {
		if defaultTerms != "" {
			return defaultTerms, nil
		}
		return "", ErrCancelled
	}
	return s.Terms, nil
}

func (s *Scripted) ChooseDestination(context.Context, []destination.Option) (destination.Destination, error) {
	s.Asked = append(s.Asked, "destination")
	if s.Destination == "" {
		return "", ErrCancelled
	}
	return s.Destination, nil
}

func (s *Scripted) PickNote(context.Context, []notes.NoteRef) (notes.NoteRef, error) {
	s.Asked = append(s.Asked, "note")
	if s.Note == nil {
		return notes.NoteRef{}, ErrCancelled
	}
	return *s.Note, nil
}

func (s *Scripted) ShowMessage(title, body string) {
	s.Messages = append(s.Messages, title+": "+body)
}
