package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wdlint/internal/diag"
	"wdlint/internal/diagfmt"
	"wdlint/internal/driver"
	"wdlint/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path ...]",
	Short: "Lint WDL documents and report diagnostics",
	Long:  "Parse the given files (or every .wdl file under the given directories), run the configured rules, and report diagnostics. With no arguments the current directory is checked.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("paths", "auto", "path display (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("show-fixes", false, "preview the edits suggested fixes would make")
	checkCmd.Flags().Bool("deny-warnings", false, "exit non-zero when warnings are present")
	checkCmd.Flags().Bool("stdin", false, "read one document from standard input instead of paths")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	pathsValue, err := cmd.Flags().GetString("paths")
	if err != nil {
		return err
	}
	pathMode, err := readPathMode(pathsValue)
	if err != nil {
		return err
	}
	showFixes, err := cmd.Flags().GetBool("show-fixes")
	if err != nil {
		return err
	}
	denyWarnings, err := cmd.Flags().GetBool("deny-warnings")
	if err != nil {
		return err
	}
	fromStdin, err := cmd.Flags().GetBool("stdin")
	if err != nil {
		return err
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts, err := driverOptions(cmd, args)
	if err != nil {
		return err
	}
	defer reportTimings(opts.Timer)
	denyWarnings = denyWarnings || opts.Config.Lint.DenyWarnings

	var (
		fileSet *source.FileSet
		results []driver.FileResult
	)
	if fromStdin {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		var result driver.FileResult
		fileSet, result = driver.LintContent("<stdin>", content, opts.Config)
		results = []driver.FileResult{result}
	} else {
		targets := args
		if len(targets) == 0 {
			targets = []string{"."}
		}
		fileSet, results, err = driver.LintPaths(cmd.Context(), targets, opts)
		if err != nil {
			return err
		}
	}

	merged := diag.NewBag(opts.Config.Lint.MaxDiagnostics)
	for _, r := range results {
		merged.Merge(r.Bag)
	}
	merged.Sort()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.WriteJSON(out, merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeFixes:     showFixes,
		})
	default:
		err = diagfmt.Pretty(out, merged, fileSet, diagfmt.PrettyOpts{
			Color:     color,
			PathMode:  pathMode,
			ShowFixes: showFixes,
		})
	}
	if err != nil {
		return err
	}

	errs, warns, notes := tally(merged)
	if !quiet(cmd) && format == "pretty" {
		fmt.Fprintf(out, "checked %d file(s): %d error(s), %d warning(s), %d note(s)\n",
			len(results), errs, warns, notes)
	}

	if errs > 0 {
		return fmt.Errorf("found %d error(s)", errs)
	}
	if denyWarnings && warns > 0 {
		return fmt.Errorf("found %d warning(s)", warns)
	}
	if opts.Config.Lint.DenyNotes && notes > 0 {
		return fmt.Errorf("found %d note(s)", notes)
	}
	return nil
}

func tally(bag *diag.Bag) (errs, warns, notes int) {
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			notes++
		}
	}
	return errs, warns, notes
}
