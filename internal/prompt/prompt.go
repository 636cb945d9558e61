// Package prompt holds the interactive collaborators of a period search.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/erikgeiser/promptkit"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/period"
	"github.com/Paintersrp/periodsearch/internal/terms"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Prompter asks the user for whatever the arguments did not supply.
type Prompter interface {
	ChoosePeriod(ctx context.Context, now time.Time) (period.Interval, error)
	EnterTerms(ctx context.Context, defaultTerms string) (string, error)
	ChooseDestination(ctx context.Context, options []destination.Option) (destination.Destination, error)
	PickNote(ctx context.Context, candidates []notes.NoteRef) (notes.NoteRef, error)
	ShowMessage(title, body string)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	bodyStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

// Terminal prompts on the controlling terminal.
type Terminal struct {
	Out io.Writer
}

func NewTerminal() *Terminal {
	return &Terminal{Out: os.Stderr}
}

// Interactive reports whether stdin can drive prompts.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (t *Terminal) ChoosePeriod(ctx context.Context, now time.Time) (period.Interval, error) {
	if err := ctx.Err(); err != nil {
		return period.Interval{}, err
	}

	presets := period.Presets()
	labels := make([]string, len(presets))
	for i, p := range presets {
		labels[i] = p.Label
	}

	idx, err := choose("Search over which period?", labels)
	if err != nil {
		return period.Interval{}, err
	}

	code := presets[idx].Code
	if code != period.CustomCode {
		return period.Preset(code, now)
	}

	from, err := ask("Start date", now.AddDate(0, 0, -period.DefaultSpanDays).Format("2006-01-02"))
	if err != nil {
		return period.Interval{}, err
	}
	to, err := ask("End date", now.Format("2006-01-02"))
	if err != nil {
		return period.Interval{}, err
	}
	return period.Custom(from, to)
}

func (t *Terminal) EnterTerms(ctx context.Context, defaultTerms string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input := textinput.New("Search terms (separate with , or OR)")
	input.InitialValue = defaultTerms
	input.Placeholder = "#tag, @person, word"
	input.Validate = func(value string) error {
		_, err := terms.Validate(value)
		return err
	}

	value, err := input.RunPrompt()
	if err != nil {
		return "", translate(err)
	}
	return strings.TrimSpace(value), nil
}

func (t *Terminal) ChooseDestination(ctx context.Context, options []destination.Option) (destination.Destination, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}

	idx, err := choose("Where should the results go?", labels)
	if err != nil {
		return "", err
	}
	return options[idx].Code, nil
}

func (t *Terminal) PickNote(ctx context.Context, candidates []notes.NoteRef) (notes.NoteRef, error) {
	if err := ctx.Err(); err != nil {
		return notes.NoteRef{}, err
	}
	if len(candidates) == 0 {
		return notes.NoteRef{}, fmt.Errorf("no notes to pick from")
	}

	idx, err := fuzzyfinder.Find(candidates, func(i int) string {
		return fmt.Sprintf("%s  (%s)", candidates[i].Title, candidates[i].Filename)
	}, fuzzyfinder.WithHeader("Pick the current note"), fuzzyfinder.WithContext(ctx))
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return notes.NoteRef{}, ErrCancelled
		}
		return notes.NoteRef{}, err
	}
	return candidates[idx], nil
}

func (t *Terminal) ShowMessage(title, body string) {
	out := t.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	if strings.TrimSpace(body) != "" {
		fmt.Fprintln(out, bodyStyle.Render(body))
	}
}

func choose(label string, choices []string) (int, error) {
	sel := selection.New(label, choices)
	sel.Filter = nil
	sel.LoopCursor = true

	picked, err := sel.RunPrompt()
	if err != nil {
		return -1, translate(err)
	}
	for i, c := range choices {
		if c == picked {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown choice %q", picked)
}

func ask(label, initial string) (string, error) {
	input := textinput.New(label)
	input.InitialValue = initial
	input.Validate = func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New("a date is required")
		}
		return nil
	}

	value, err := input.RunPrompt()
	if err != nil {
		return "", translate(err)
	}
	return value, nil
}

func translate(err error) error {
	if errors.Is(err, promptkit.ErrAborted) {
		return ErrCancelled
	}
	return err
}
