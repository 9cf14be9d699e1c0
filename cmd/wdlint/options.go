package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wdlint/internal/config"
	"wdlint/internal/diagfmt"
	"wdlint/internal/driver"
	"wdlint/internal/observ"
)

type colorMode string

const (
	colorModeAuto colorMode = "auto"
	colorModeOn   colorMode = "on"
	colorModeOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorModeAuto, nil
	case "on":
		return colorModeOn, nil
	case "off":
		return colorModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func shouldColor(mode colorMode) bool {
	switch mode {
	case colorModeOn:
		return true
	case colorModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// useColor resolves the persistent --color flag against the output stream.
func useColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := readColorMode(value)
	if err != nil {
		return false, err
	}
	return shouldColor(mode), nil
}

// driverOptions builds driver options: the nearest wdlint.toml above the
// first target path, overridden by persistent flags.
func driverOptions(cmd *cobra.Command, targets []string) (driver.Options, error) {
	startDir := "."
	if len(targets) > 0 {
		startDir = targets[0]
		if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
			startDir = filepath.Dir(startDir)
		}
	}

	cfg, _, err := config.Discover(startDir)
	if err != nil {
		return driver.Options{}, err
	}

	flags := cmd.Root().PersistentFlags()
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return driver.Options{}, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return driver.Options{}, err
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	if maxDiagnostics > 0 {
		cfg.Lint.MaxDiagnostics = maxDiagnostics
	}

	opts := driver.Options{Config: cfg, Jobs: jobs, NoCache: noCache}
	if timings, err := flags.GetBool("timings"); err == nil && timings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

// reportTimings prints the run's phase summary to stderr when --timings is
// set. A nil timer means the flag was off.
func reportTimings(timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(os.Stderr, timer.Summary())
}

func readPathMode(value string) (diagfmt.PathMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return 0, fmt.Errorf("invalid --paths value %q (expected auto|absolute|relative|basename)", value)
	}
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
