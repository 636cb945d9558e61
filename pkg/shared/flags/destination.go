package flags

import (
	"github.com/spf13/cobra"
)

// PickCurrent is the value --current takes when given without a note.
const PickCurrent = "?"

func AddDestination(cmd *cobra.Command) {
	cmd.Flags().
		StringP("dest", "d", "", "Where to write results: current, newnote, log or cancel.")
}

func HandleDestination(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("dest")
}

func AddCurrent(cmd *cobra.Command) {
	cmd.Flags().
		StringP("current", "c", "", "Note treated as the current note, as --current=<path or title>. Without a value, pick one.")
	cmd.Flags().Lookup("current").NoOptDefVal = PickCurrent
}

func HandleCurrent(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("current")
}
