// Package config loads wdlint.toml, the per-project lint configuration.
// The file is discovered by walking up from the linted path, so a single
// manifest at the repository root covers the whole tree.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the configuration file searched for.
const ManifestName = "wdlint.toml"

// Config is the full contents of a wdlint.toml.
type Config struct {
	Lint       LintConfig       `toml:"lint"`
	ShellCheck ShellCheckConfig `toml:"shellcheck"`
	Cache      CacheConfig      `toml:"cache"`
}

// LintConfig selects which rules run and how many diagnostics are kept.
type LintConfig struct {
	// MaxDiagnostics caps the diagnostics collected per run.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// Except lists rule identifiers disabled everywhere, as if every
	// document carried a suppression directive for them.
	Except []string `toml:"except"`
	// Tags restricts the run to rules carrying at least one of the named
	// tags. Empty means all rules.
	Tags []string `toml:"tags"`
	// DenyWarnings escalates the exit status when warnings are present.
	DenyWarnings bool `toml:"deny_warnings"`
	// DenyNotes escalates the exit status when notes are present.
	DenyNotes bool `toml:"deny_notes"`
}

// ShellCheckConfig configures the external shell checker.
type ShellCheckConfig struct {
	// Bin is the executable name or path probed on first use.
	Bin string `toml:"bin"`
	// Disabled turns the shellcheck rule off without listing it in
	// [lint].except.
	Disabled bool `toml:"disabled"`
}

// CacheConfig controls the on-disk result cache.
type CacheConfig struct {
	Disabled bool `toml:"disabled"`
	// Dir overrides the default cache directory.
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Lint: LintConfig{
			MaxDiagnostics: 5000,
		},
		ShellCheck: ShellCheckConfig{
			Bin: "shellcheck",
		},
	}
}

// Find walks up from startDir to locate the nearest wdlint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path on top of the defaults. Unknown keys
// are an error: a misspelled option silently doing nothing is worse than
// a refusal.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown key(s): %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover finds and loads the nearest manifest above startDir, falling
// back to defaults when there is none. The returned path is empty in the
// fallback case.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

func (c Config) validate(path string) error {
	if c.Lint.MaxDiagnostics < 1 {
		return fmt.Errorf("%s: [lint].max_diagnostics must be positive", path)
	}
	if strings.TrimSpace(c.ShellCheck.Bin) == "" {
		return fmt.Errorf("%s: [shellcheck].bin must not be empty", path)
	}
	return nil
}
