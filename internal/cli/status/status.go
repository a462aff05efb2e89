// Package status holds the commands that edit a project's workflow
package status

import (
	"github.com/spf13/cobra"
)

// StatusCmd returns the status parent command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage the statuses (board columns) of a project",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DefaultCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
