package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wdlint/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lint result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached lint results",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := driverOptions(cmd, nil)
		if err != nil {
			return err
		}
		if err := driver.ClearCache(opts); err != nil {
			return err
		}
		if !quiet(cmd) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
