package main

import (
	"fmt"
	"time"

	"veripack/cmd/veripack/ui"
	"veripack/internal/store"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past verification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.Open(store.DefaultPath())
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(ui.InfoMsg("No verification runs recorded yet."))
				return nil
			}

			var rows [][]string
			for _, run := range runs {
				result := ui.Success("verified")
				detail := run.Detail
				if !run.Verified {
					result = ui.ErrorStyle.Render("failed")
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					run.Package,
					run.Version,
					result,
					detail,
				})
			}

			fmt.Println(ui.Table([]string{"WHEN", "PACKAGE", "VERSION", "RESULT", "DETAIL"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
