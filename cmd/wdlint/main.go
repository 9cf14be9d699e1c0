package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wdlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "wdlint",
	Short:        "Lint and auto-fix tool for WDL documents",
	Long:         `wdlint checks Workflow Description Language documents against a rule catalog, runs command sections through shellcheck, and can apply the suggested fixes.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("jobs", 0, "number of files linted concurrently (0 = all CPUs)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the result cache")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "override the diagnostics limit from wdlint.toml")
	rootCmd.PersistentFlags().Bool("timings", false, "report phase timings on stderr")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the given file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the given file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to the given file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
