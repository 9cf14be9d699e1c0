package driver

import (
	"wdlint/internal/config"
	"wdlint/internal/lint"
	"wdlint/internal/lint/rules"
)

// sharedProber is the process-wide probe cache handed to every shellcheck
// rule instance, so the PATH lookup happens once no matter how many files
// run in parallel.
var sharedProber = rules.NewShellCheckProber()

// selectRules builds a fresh rule set honouring the configuration: rules
// listed in [lint].except are left out, a tag filter keeps only matching
// rules, and the shellcheck rule picks up its configured executable.
// Fresh instances per call keep parallel file lints independent.
func selectRules(cfg config.Config) []lint.Rule {
	excepted := make(map[string]bool, len(cfg.Lint.Except))
	for _, id := range cfg.Lint.Except {
		excepted[id] = true
	}

	var tagFilter lint.TagSet
	for _, name := range cfg.Lint.Tags {
		if tag, ok := lint.ParseTag(name); ok {
			tagFilter = tagFilter.Union(lint.NewTagSet(tag))
		}
	}

	var out []lint.Rule
	for _, rule := range rules.All() {
		if _, isShellCheck := rule.(*rules.ShellCheck); isShellCheck {
			if cfg.ShellCheck.Disabled {
				continue
			}
			rule = rules.NewShellCheckWith(cfg.ShellCheck.Bin, sharedProber)
		}
		if excepted[rule.ID()] {
			continue
		}
		if tagFilter != 0 && !rule.Tags().Intersects(tagFilter) {
			continue
		}
		out = append(out, rule)
	}
	return out
}
