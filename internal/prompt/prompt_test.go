package prompt

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erikgeiser/promptkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/notes"
)

var _ Prompter = (*Terminal)(nil)
var _ Prompter = (*Scripted)(nil)

func TestTranslateAbort(t *testing.T) {
	assert.ErrorIs(t, translate(promptkit.ErrAborted), ErrCancelled)

	other := errors.New("tty gone")
	assert.Equal(t, other, translate(other))
}

func TestShowMessageWritesTitleAndBody(t *testing.T) {
	var buf bytes.Buffer
	(&Terminal{Out: &buf}).ShowMessage("No notes", "nothing dated in range")

	assert.Contains(t, buf.String(), "No notes")
	assert.Contains(t, buf.String(), "nothing dated in range")
}

func TestTerminalHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	term := &Terminal{}

	_, err := term.ChoosePeriod(ctx, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = term.EnterTerms(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = term.ChooseDestination(ctx, destination.Options(false))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = term.PickNote(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPickNoteNeedsCandidates(t *testing.T) {
	_, err := (&Terminal{}).PickNote(context.Background(), nil)
	assert.EqualError(t, err, "no notes to pick from")
}

func TestScriptedReplaysAnswers(t *testing.T) {
	ref := notes.NoteRef{Path: "/v/a.md"}
	s := &Scripted{Terms: "urgent", Destination: destination.Log, Note: &ref}

	got, err := s.EnterTerms(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "urgent", got)

	dest, err := s.ChooseDestination(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, destination.Log, dest)

	note, err := s.PickNote(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ref, note)

	_, err = s.ChoosePeriod(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, []string{"terms", "destination", "note", "period"}, s.Asked)
}

func TestScriptedFallsBackToDefaultTerms(t *testing.T) {
	s := &Scripted{}
	got, err := s.EnterTerms(context.Background(), "#todo")
	require.NoError(t, err)
	assert.Equal(t, "#todo", got)

	_, err = (&Scripted{}).EnterTerms(context.Background(), "")
	assert.ErrorIs(t, err, ErrCancelled)
}
