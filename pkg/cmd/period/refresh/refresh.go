package refresh

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/report"
	"github.com/Paintersrp/periodsearch/internal/services/periodsearch"
	"github.com/Paintersrp/periodsearch/internal/state"
)

func NewCmdRefresh(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <note>",
		Short: "Re-run the search behind a saved search note",
		Long: heredoc.Doc(`
			Read the refresh link from a saved search note and run the same
			terms over the same period again, replacing the note's content.
		`),
		Example: "periodsearch period refresh Searches/urgent-search-results-for-2024-01-01-2024-01-31.md",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s == nil || s.Store == nil {
				return errors.New("state is not configured")
			}

			ref, err := s.Store.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			content, err := os.ReadFile(ref.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", ref.Filename, err)
			}

			cb, ok := destination.FindCallback(string(content))
			if !ok {
				return fmt.Errorf("%s has no refresh link", ref.Filename)
			}
			s.Logger.Debugf("refreshing %s: terms %q from %s to %s", ref.Filename, cb.Terms, cb.From, cb.To)

			res, err := periodsearch.FromState(s, periodsearch.Deps{}).Run(cmd.Context(), periodsearch.Request{
				Terms:       cb.Terms,
				From:        cb.From,
				To:          cb.To,
				Label:       cb.Label,
				SubLabel:    cb.SubLabel,
				Destination: string(destination.NewNote),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d results for %s written to %s\n",
				report.Total(res.Records), res.Interval.Describe(), res.Outcome.Note.Filename)
			return nil
		},
	}
}
