package initialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/periodsearch/internal/config"
	"github.com/Paintersrp/periodsearch/internal/state"
)

func NewCmdInit() *cobra.Command {
	var name string
	var calendarDir string
	var editor string

	cmd := &cobra.Command{
		Use:     "initialize [vault]",
		Aliases: []string{"i", "init"},
		Short:   "Point periodsearch at a vault",
		Long: heredoc.Doc(`
			Create the configuration file and record the vault searches run
			against. The vault and calendar folders are created when missing.
			Use "workspace add" to register further vaults afterwards.
		`),
		Example: heredoc.Doc(`
			periodsearch init ~/vaults/zettel --calendar-dir Daily
			periodsearch init ~/work --name work --editor obsidian
		`),
		Args: cobra.ExactArgs(1),
		// No vault is configured yet, so the root state loader must not run.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			vault := strings.TrimSpace(args[0])
			if vault == "" {
				return fmt.Errorf("vault path is required")
			}
			vault, err := filepath.Abs(vault)
			if err != nil {
				return err
			}
			if editor != "" {
				if err := config.ValidateEditor(editor); err != nil {
					return err
				}
			}

			home, err := state.GetHomeDir()
			if err != nil {
				return err
			}
			cfg, err := state.LoadUnconfigured(home)
			if err != nil {
				return err
			}

			ws := &config.Workspace{
				VaultDir:    vault,
				CalendarDir: calendarDir,
				Editor:      editor,
				Search:      config.DefaultSearchConfig(),
			}
			if err := cfg.Initialize(name, ws); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Join(ws.VaultDir, ws.CalendarDir), 0o755); err != nil {
				return fmt.Errorf("failed to create vault: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace %q at %s\n", cfg.CurrentWorkspace, vault)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "default", "Name of the workspace")
	cmd.Flags().StringVar(&calendarDir, "calendar-dir", "", "Vault folder holding the calendar notes")
	cmd.Flags().StringVar(&editor, "editor", "", "Editor saved search notes open in")

	return cmd
}
