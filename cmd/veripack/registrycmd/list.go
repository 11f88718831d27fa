package registrycmd

import (
	"fmt"
	"sort"

	"veripack/cmd/veripack/ui"
	"veripack/config"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured registries",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(cfg.Registries) == 0 {
				fmt.Println(ui.InfoMsg("No registries configured; using %s.", ui.Bold(cfg.RegistryURL())))
				return nil
			}

			names := make([]string, 0, len(cfg.Registries))
			for name := range cfg.Registries {
				names = append(names, name)
			}
			sort.Strings(names)

			var rows [][]string
			for _, name := range names {
				current := ""
				if name == cfg.CurrentRegistry {
					current = "*"
				}
				rows = append(rows, []string{current, name, cfg.Registries[name].URL})
			}

			fmt.Println(ui.Table([]string{"", "NAME", "URL"}, rows))
			return nil
		},
	}
}
