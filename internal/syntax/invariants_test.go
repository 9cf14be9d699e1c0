package syntax_test

import (
	"testing"

	"wdlint/internal/diag"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
	"wdlint/internal/testkit"
)

func TestParseSpanInvariants(t *testing.T) {
	docs := map[string]string{
		"minimal":            "version 1.1\n",
		"task":               "version 1.1\n\ntask greet {\n    input {\n        String name\n    }\n\n    command <<<\n        echo ~{name}\n    >>>\n}\n",
		"workflow":           "version 1.1\n\nworkflow w {\n    call greet\n}\n",
		"version_after_task": "task t {\n}\n\nversion 1.1\n",
		"directives":         "#@ except: TrailingWhitespace\nversion 1.1\n\n#@ except: CommandSectionShellCheck\ntask t {\n    command {\n        echo hi\n    }\n}\n",
		"unterminated":       "version 1.1\ntask t {\n    command <<<\n        echo hi\n",
		"empty":              "",
	}

	for name, content := range docs {
		t.Run(name, func(t *testing.T) {
			fileSet := source.NewFileSet()
			id := fileSet.AddVirtual(name+".wdl", []byte(content))
			file := fileSet.Get(id)

			bag := diag.NewBag(64)
			root := syntax.Parse(file, bag)
			if err := testkit.CheckSpanInvariants(root, file); err != nil {
				t.Fatalf("span invariants violated: %v", err)
			}
		})
	}
}
