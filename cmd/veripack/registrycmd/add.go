package registrycmd

import (
	"fmt"

	"veripack/cmd/veripack/ui"
	"veripack/config"

	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]

			if url == "" {
				return fmt.Errorf("--url is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			cfg.Set(name, config.Registry{URL: url})

			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Println(ui.SuccessMsg("Registry %s saved.", ui.Bold(name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Registry base URL (e.g. https://registry.npmjs.org)")
	return cmd
}
