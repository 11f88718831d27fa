package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"veripack"
	"veripack/cmd/veripack/ui"
	"veripack/config"
	"veripack/internal/store"

	"github.com/spf13/cobra"
)

func verifyCmd() *cobra.Command {
	var (
		registryURL string
		gitBinary   string
		npmBinary   string
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "verify <package>[@<version-or-tag>]",
		Short: "Verify that a published package matches its claimed source commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, spec := splitPackageArg(args[0])
			if name == "" {
				return fmt.Errorf("invalid package argument %q", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if registryURL == "" {
				registryURL = cfg.RegistryURL()
			}
			if gitBinary == "" {
				gitBinary = cfg.GitBinary
			}
			if npmBinary == "" {
				npmBinary = cfg.NpmBinary
			}

			out := ui.NewStepOutput()
			startedAt := time.Now()

			res := veripack.Verify(cmd.Context(), name, spec,
				veripack.WithRegistryURL(registryURL),
				veripack.WithGitBinary(gitBinary),
				veripack.WithNpmBinary(npmBinary),
				veripack.WithRender(out.OnSnapshot),
			)
			out.Close()

			if !noHistory {
				recordRun(cmd, res, startedAt)
			}

			printResult(res)
			if !res.Verified {
				return fmt.Errorf("%s@%s could not be verified", name, displayVersion(res.Version, spec))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registryURL, "registry", "", "Registry base URL (defaults to the configured registry)")
	cmd.Flags().StringVar(&gitBinary, "git", "", "Path to the git executable")
	cmd.Flags().StringVar(&npmBinary, "npm", "", "Path to the npm executable")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the local history")
	return cmd
}

// recordRun appends the outcome to the local history. Best effort: a broken
// history database never fails a verification.
func recordRun(cmd *cobra.Command, res veripack.Result, startedAt time.Time) {
	s, err := store.Open(store.DefaultPath())
	if err != nil {
		slog.Warn("Skipping history record.", "err", err)
		return
	}
	defer s.Close()

	detail := ""
	if res.Cause != nil {
		detail = res.Cause.Error()
	}
	err = s.Append(cmd.Context(), store.Run{
		Package:        res.Package,
		Version:        res.Version,
		Verified:       res.Verified,
		RegistryShasum: res.RegistryShasum,
		RemoteShasum:   res.RemoteShasum,
		Detail:         detail,
		StartedAt:      startedAt,
	})
	if err != nil {
		slog.Warn("Skipping history record.", "err", err)
	}
}

func printResult(res veripack.Result) {
	if res.Verified {
		fmt.Println(ui.SuccessMsg("Package %s matches its source.", ui.Bold(res.Package+"@"+res.Version)))
	} else {
		fmt.Println(ui.ErrorMsg("Package %s could not be verified.", ui.Bold(res.Package)))
	}

	pairs := []ui.Pair{}
	if res.Version != "" {
		pairs = append(pairs, ui.KV("version", res.Version))
	}
	if res.RepoURL != "" {
		pairs = append(pairs, ui.KV("repository", res.RepoURL))
	}
	if res.Refspec != "" {
		pairs = append(pairs, ui.KV("refspec", res.Refspec))
	}
	if res.RegistryShasum != "" {
		pairs = append(pairs, ui.KV("registry shasum", res.RegistryShasum))
	}
	if res.RemoteShasum != "" {
		pairs = append(pairs, ui.KV("rebuilt shasum", res.RemoteShasum))
	}
	if len(pairs) > 0 {
		fmt.Print(ui.KeyValues("  ", pairs...))
	}
}

// splitPackageArg separates "name@spec", keeping the leading @ of scoped
// package names intact.
func splitPackageArg(arg string) (name, spec string) {
	if idx := strings.LastIndex(arg, "@"); idx > 0 {
		return arg[:idx], arg[idx+1:]
	}
	return arg, ""
}

func displayVersion(resolved, spec string) string {
	if resolved != "" {
		return resolved
	}
	if spec != "" {
		return spec
	}
	return "latest"
}
