package workspace

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/periodsearch/internal/config"
	"github.com/Paintersrp/periodsearch/internal/state"
)

func NewCmdWorkspace(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces",
	}

	cmd.AddCommand(
		newCmdWorkspaceList(s),
		newCmdWorkspaceSwitch(s),
		newCmdWorkspaceAdd(s),
	)

	return cmd
}

func newCmdWorkspaceList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured workspaces",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := s.Config.WorkspaceNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workspaces configured")
				return nil
			}

			for _, name := range names {
				marker := " "
				if name == s.Config.CurrentWorkspace {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, name, s.Config.Workspaces[name].VaultDir)
			}

			return nil
		},
	}
}

func newCmdWorkspaceSwitch(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "switch [name]",
		Short: "Switch the active workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if target == "" {
				return fmt.Errorf("workspace name cannot be empty")
			}

			if err := s.Config.SwitchWorkspace(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to workspace %q\n", target)
			return nil
		},
	}
}

func newCmdWorkspaceAdd(s *state.State) *cobra.Command {
	var name string
	var vault string
	var calendarDir string
	var makeCurrent bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new workspace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("workspace name is required")
			}
			vault = strings.TrimSpace(vault)
			if vault == "" {
				return fmt.Errorf("vault path is required")
			}

			ws := cloneWorkspaceSettings(s.Workspace)
			ws.VaultDir = vault
			ws.CalendarDir = calendarDir

			if err := s.Config.AddWorkspace(name, ws, makeCurrent); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added workspace %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the new workspace")
	cmd.Flags().StringVar(&vault, "vault", "", "Path to the workspace vault")
	cmd.Flags().StringVar(&calendarDir, "calendar-dir", "", "Vault folder holding the calendar notes")
	cmd.Flags().BoolVar(&makeCurrent, "current", false, "Switch to the new workspace after creation")

	return cmd
}

// cloneWorkspaceSettings copies editor and search settings. The mirror is
// left unset so two vaults never share an upload prefix.
func cloneWorkspaceSettings(src *config.Workspace) *config.Workspace {
	if src == nil {
		return &config.Workspace{Search: config.DefaultSearchConfig()}
	}

	clone := &config.Workspace{
		Editor:   src.Editor,
		NvimArgs: src.NvimArgs,
		Search:   src.Search,
	}
	clone.Search.FoldersToExclude = append([]string(nil), src.Search.FoldersToExclude...)
	return clone
}
