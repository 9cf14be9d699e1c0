package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wdlint/internal/lint/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [rule]",
	Short: "List the lint rules, or explain one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRules,
}

var ruleNameColor = color.New(color.FgCyan, color.Bold)

func runRules(cmd *cobra.Command, args []string) error {
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	name := func(id string) string {
		if colored {
			return ruleNameColor.Sprint(id)
		}
		return id
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		rule := rules.ByID(args[0])
		if rule == nil {
			return fmt.Errorf("unknown rule %q", args[0])
		}
		fmt.Fprintf(out, "%s (%s)\n\n%s\n\n%s\n", name(rule.ID()), rule.Tags(), rule.Description(), rule.Explanation())
		return nil
	}

	for _, rule := range rules.All() {
		fmt.Fprintf(out, "%-28s %-34s %s\n", name(rule.ID()), "("+rule.Tags().String()+")", rule.Description())
	}
	return nil
}
