package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wdlint/internal/diag"
	"wdlint/internal/driver"
	"wdlint/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <path ...>",
	Short: "Apply the fixes suggested by lint diagnostics",
	Long:  "Lint the given files or directories and apply every non-conflicting fix in place. Fixes whose edits overlap a fix accepted earlier are skipped and reported.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
	fixCmd.Flags().Bool("diff", false, "print the fixed content of changed files (implies --dry-run)")
}

func runFix(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	dryRun = dryRun || showDiff

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
	// Fixing rewrites files; always lint fresh content.
	opts.NoCache = true

	fileSet, results, err := driver.LintPaths(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	diagnostics := make([]diag.Diagnostic, 0)
	for _, r := range results {
		diagnostics = append(diagnostics, r.Bag.Items()...)
	}

	res, applyErr := fix.Apply(fileSet, diagnostics, fix.ApplyOptions{DryRun: dryRun})
	return reportApplyResult(cmd, res, applyErr, dryRun, showDiff)
}

func reportApplyResult(cmd *cobra.Command, res *fix.ApplyResult, applyErr error, dryRun, showDiff bool) error {
	out := cmd.OutOrStdout()

	if errors.Is(applyErr, fix.ErrNoFixes) {
		if !quiet(cmd) {
			fmt.Fprintln(out, "no applicable fixes found")
		}
		return nil
	}
	if res == nil {
		return applyErr
	}

	verb := "applied"
	if dryRun {
		verb = "would apply"
	}
	if len(res.Applied) > 0 && !quiet(cmd) {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(out, "  %s: [%s] %s\n", item.Path, item.Rule, item.Message)
		}
	}
	if len(res.Skipped) > 0 && !quiet(cmd) {
		fmt.Fprintf(out, "skipped %d fix(es):\n", len(res.Skipped))
		for _, item := range res.Skipped {
			fmt.Fprintf(out, "  [%s] %s: %s\n", item.Rule, item.Message, item.Reason)
		}
	}
	for _, change := range res.FileChanges {
		if !quiet(cmd) {
			fmt.Fprintf(out, "%s: %d edit(s)\n", change.Path, change.EditCount)
		}
		if showDiff {
			fmt.Fprint(out, change.NewContent)
		}
	}
	return applyErr
}
