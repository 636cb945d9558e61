package editor

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/periodsearch/internal/state"
)

func NewCmdChangeEditor(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "change-editor [editor]",
		Short: "Change the editor saved search notes open in",
		Long: heredoc.Doc(`
			Update the editor of the active workspace and save it to the
			configuration file. Supported: nvim, vim, nano, vscode, code, obsidian.
		`),
		Example: "periodsearch change-editor obsidian",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Config.ChangeEditor(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Editor for workspace %q set to %s\n", s.WorkspaceName, args[0])
			return nil
		},
	}
}
