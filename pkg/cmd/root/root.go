package root

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Paintersrp/periodsearch/internal/constants"
	"github.com/Paintersrp/periodsearch/internal/state"
	"github.com/Paintersrp/periodsearch/pkg/cmd/editor"
	"github.com/Paintersrp/periodsearch/pkg/cmd/initialize"
	"github.com/Paintersrp/periodsearch/pkg/cmd/period"
	"github.com/Paintersrp/periodsearch/pkg/cmd/workspace"
)

// Loader builds the state for one invocation from the parsed global flags.
type Loader func(opts state.Options) (*state.State, error)

func NewCmdRoot(load Loader) *cobra.Command {
	var opts state.Options
	s := &state.State{}

	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Search your calendar notes over a period and save a report.",
		Long: heredoc.Doc(`
			Search the dated notes in your vault for one or more terms over a
			bounded period, then write the grouped matches to the current note,
			a saved search note, or the log.
		`),
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Debug = viper.GetBool("debug")
			opts.Styled = term.IsTerminal(int(os.Stderr.Fd()))
			if opts.LogOutput == nil {
				opts.LogOutput = cmd.ErrOrStderr()
			}

			loaded, err := load(opts)
			if err != nil {
				return err
			}
			*s = *loaded
			return nil
		},
	}

	cmd.PersistentFlags().
		StringVarP(&opts.Workspace, "workspace", "w", "", "Workspace to use for this command.")
	cmd.PersistentFlags().Bool("debug", false, "Log skipped lines and other diagnostics.")
	viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	cmd.AddCommand(
		initialize.NewCmdInit(),
		period.NewCmdPeriod(s),
		workspace.NewCmdWorkspace(s),
		editor.NewCmdChangeEditor(s),
	)

	return cmd
}
