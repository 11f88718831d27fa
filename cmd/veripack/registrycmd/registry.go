// Package registrycmd implements the "veripack registry" command group for
// managing named registry endpoints.
package registrycmd

import "github.com/spf13/cobra"

// Cmd returns the parent "veripack registry" command.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage registry endpoints",
	}

	cmd.AddCommand(listCmd())
	cmd.AddCommand(useCmd())
	cmd.AddCommand(addCmd())
	cmd.AddCommand(removeCmd())
	return cmd
}
