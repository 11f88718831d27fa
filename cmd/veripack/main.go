package main

import (
	"fmt"
	"os"

	"veripack/cmd/veripack/registrycmd"
	"veripack/cmd/veripack/ui"
	"veripack/internal/logging"
	"veripack/internal/support/buildinfo"
	"veripack/internal/tracing"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug         bool
		noInteraction bool
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	shutdownTracing := tracing.Configure()
	defer shutdownTracing()

	root := &cobra.Command{
		Use:           "veripack",
		Short:         "Verify published npm packages against their source repositories",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(level); err != nil {
				return err
			}
			ui.ConfigureInteraction(noInteraction)
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&noInteraction, "no-interaction", false, "Disable animated output and prompts")

	root.AddCommand(verifyCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(registrycmd.Cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
