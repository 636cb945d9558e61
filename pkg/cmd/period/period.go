package period

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/mirror"
	"github.com/Paintersrp/periodsearch/internal/note"
	"github.com/Paintersrp/periodsearch/internal/notes"
	"github.com/Paintersrp/periodsearch/internal/prompt"
	"github.com/Paintersrp/periodsearch/internal/report"
	"github.com/Paintersrp/periodsearch/internal/services/periodsearch"
	"github.com/Paintersrp/periodsearch/internal/state"
	"github.com/Paintersrp/periodsearch/pkg/cmd/period/refresh"
	"github.com/Paintersrp/periodsearch/pkg/shared/flags"
)

var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
	interactive    = prompt.Interactive
	newPrompter    = func() prompt.Prompter { return prompt.NewTerminal() }
)

func NewCmdPeriod(s *state.State) *cobra.Command {
	var (
		noOpen   bool
		render   bool
		copyLink bool
	)

	cmd := &cobra.Command{
		Use:     "period [terms] [from] [to]",
		Aliases: []string{"p", "search"},
		Short:   "Search calendar notes in a period and report the matches",
		Long: heredoc.Doc(`
			Search every calendar note dated inside the period for each term and
			write one section of matches per term.

			Terms are separated with "," or " OR " and matched literally, ignoring
			case. Dates are YYYY-MM-DD or YYYYMMDD; "default" means 91 days ago for
			the start and today for the end, and apply to any date left out. With
			no arguments in a terminal, the period, terms and destination are
			asked for.
		`),
		Example: heredoc.Doc(`
			periodsearch period "#project, @alice" 2024-01-01 2024-03-31
			periodsearch period "urgent OR blocked" default default --dest log
			periodsearch period --current=Projects.md "#todo" default default --dest current
		`),
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s == nil || s.Store == nil {
				return errors.New("state is not configured")
			}
			ctx := cmd.Context()

			req := periodsearch.Request{}
			if len(args) > 0 {
				req.Terms = args[0]
			}
			if len(args) > 1 {
				req.From = args[1]
			}
			if len(args) > 2 {
				req.To = args[2]
			}

			paste, err := flags.HandlePaste(cmd)
			if err != nil {
				return err
			}
			if paste && strings.TrimSpace(req.Terms) == "" {
				value, err := readClipboard()
				if err != nil {
					return fmt.Errorf("read clipboard: %w", err)
				}
				req.Terms = strings.TrimSpace(value)
			}

			if req.Destination, err = flags.HandleDestination(cmd); err != nil {
				return err
			}

			var deps periodsearch.Deps
			if interactive() {
				deps.Prompter = newPrompter()
			}

			currentArg, err := flags.HandleCurrent(cmd)
			if err != nil {
				return err
			}
			if req.CurrentNote, err = resolveCurrent(cmd, s, deps.Prompter, currentArg); err != nil {
				return finish(cmd.ErrOrStderr(), err)
			}

			if !noOpen {
				deps.Opener = note.NewOpener()
			}
			if render {
				deps.Render = destination.TerminalRenderer(os.Stderr)
			}

			settings := mirror.Settings(s.Workspace.Mirror)
			if settings.Enabled() {
				m, err := mirror.New(ctx, settings)
				if err != nil {
					return err
				}
				deps.Mirror = m
			}

			res, err := periodsearch.FromState(s, deps).Run(ctx, req)
			if err != nil {
				return finish(cmd.ErrOrStderr(), err)
			}

			printOutcome(cmd.OutOrStdout(), res)
			if copyLink && res.Outcome.Callback != "" {
				if err := writeClipboard(res.Outcome.Callback); err != nil {
					s.Logger.Warnf("could not copy refresh link: %v", err)
				}
			}
			return nil
		},
	}

	flags.AddDestination(cmd)
	flags.AddCurrent(cmd)
	flags.AddPaste(cmd)
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Do not open a saved search note in the editor.")
	cmd.Flags().BoolVar(&render, "render", false, "Render log output as styled markdown.")
	cmd.Flags().BoolVar(&copyLink, "copy-link", false, "Copy the refresh link of a saved search note to the clipboard.")

	cmd.AddCommand(refresh.NewCmdRefresh(s))

	return cmd
}

func resolveCurrent(cmd *cobra.Command, s *state.State, p prompt.Prompter, arg string) (*notes.NoteRef, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return nil, nil
	case arg == flags.PickCurrent:
		if p == nil {
			return nil, errors.New("--current without a note needs an interactive terminal")
		}
		candidates, err := s.Store.ListNotes(cmd.Context(), notes.SearchScope{Exclude: s.Workspace.Search.FoldersToExclude})
		if err != nil {
			return nil, err
		}
		ref, err := p.PickNote(cmd.Context(), candidates)
		if err != nil {
			return nil, err
		}
		return &ref, nil
	default:
		ref, err := s.Store.Resolve(cmd.Context(), arg)
		if err != nil {
			return nil, err
		}
		return &ref, nil
	}
}

// finish turns a user cancellation into a clean exit.
func finish(w io.Writer, err error) error {
	if periodsearch.Classify(err) == periodsearch.KindCancelled {
		fmt.Fprintln(w, "Cancelled.")
		return nil
	}
	return err
}

func printOutcome(w io.Writer, res *periodsearch.Result) {
	total := report.Total(res.Records)
	switch res.Outcome.Destination {
	case destination.NewNote, destination.Current:
		fmt.Fprintf(w, "%d results for %s written to %s\n", total, res.Interval.Describe(), res.Outcome.Note.Filename)
		if res.Outcome.MirrorLocation != "" {
			fmt.Fprintf(w, "mirrored to %s\n", res.Outcome.MirrorLocation)
		}
	case destination.Log:
		fmt.Fprintf(w, "%d results for %s written to the log\n", total, res.Interval.Describe())
	}
}
