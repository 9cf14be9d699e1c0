// Package driver orchestrates lint runs: it loads files, parses them,
// walks the rule set over each document and collects diagnostics, with an
// on-disk cache and parallel execution for directory runs.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"wdlint/internal/config"
	"wdlint/internal/diag"
	"wdlint/internal/lint"
	"wdlint/internal/observ"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

// Options configures a lint run.
type Options struct {
	Config config.Config
	// Jobs caps the number of files linted concurrently; <= 0 means
	// GOMAXPROCS.
	Jobs int
	// NoCache bypasses the disk cache even when the config enables it.
	NoCache bool
	// Timer, when non-nil, records phase timings for the run.
	Timer *observ.Timer
}

// FileResult is the outcome of linting one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Root   *syntax.Node
	Bag    *diag.Bag
	// Cached is set when the diagnostics were restored from the disk
	// cache instead of a fresh parse and walk. Root is nil in that case.
	Cached bool
}

// LintPaths lints every given path. Directories are expanded to the .wdl
// files beneath them (sorted for deterministic output); plain files are
// linted as-is regardless of extension.
func LintPaths(ctx context.Context, paths []string, opts Options) (*source.FileSet, []FileResult, error) {
	phase := opts.Timer.Begin("scan")
	files, err := expandPaths(paths)
	opts.Timer.End(phase, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	cache := openCache(opts)
	fingerprint := ruleFingerprint(opts.Config)

	phase = opts.Timer.Begin("load")
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			// Placeholder entry so the load-error diagnostic renders
			// under the unreadable path instead of an arbitrary file.
			fileIDs[path] = fileSet.AddVirtual(path, nil)
			continue
		}
		fileIDs[path] = id
	}
	opts.Timer.End(phase, "")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	results := make([]FileResult, len(files))

	phase = opts.Timer.Begin("lint")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.Config.Lint.MaxDiagnostics)
			id := fileIDs[path]
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.NewError("", source.Span{File: id}, "failed to load file: "+loadErr.Error()))
				results[i] = FileResult{Path: path, FileID: id, Bag: bag}
				return nil
			}

			file := fileSet.Get(id)

			if cached, ok := cache.lookup(file, fingerprint); ok {
				restoreDiagnostics(bag, file, cached)
				results[i] = FileResult{Path: path, FileID: id, Bag: bag, Cached: true}
				return nil
			}

			root := lintFile(file, bag, opts.Config)
			cache.store(file, fingerprint, bag.Items())
			results[i] = FileResult{Path: path, FileID: id, Root: root, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	cached := 0
	for i := range results {
		results[i].Bag.Sort()
		if results[i].Cached {
			cached++
		}
	}
	opts.Timer.End(phase, fmt.Sprintf("%d cached", cached))
	return fileSet, results, nil
}

// LintContent lints in-memory content under a display name, bypassing the
// cache. Used for stdin input.
func LintContent(name string, content []byte, cfg config.Config) (*source.FileSet, FileResult) {
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(name, content)
	file := fileSet.Get(id)

	bag := diag.NewBag(cfg.Lint.MaxDiagnostics)
	root := lintFile(file, bag, cfg)
	bag.Sort()
	return fileSet, FileResult{Path: name, FileID: id, Root: root, Bag: bag}
}

// lintFile parses one file and walks the configured rules over it.
func lintFile(file *source.File, bag *diag.Bag, cfg config.Config) *syntax.Node {
	root := syntax.Parse(file, bag)
	ctx := lint.NewContext(bag, file, root)
	lint.Walk(root, selectRules(cfg), ctx)
	return root
}

// expandPaths resolves the given paths into the sorted list of files to
// lint.
func expandPaths(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		list, err := listWDLFiles(path)
		if err != nil {
			return nil, err
		}
		for _, f := range list {
			add(f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// listWDLFiles returns path itself when it is a file, or every .wdl file
// beneath it when it is a directory. WalkDir visits a plain file root
// exactly once, so both cases go through the same walk.
func listWDLFiles(path string) ([]string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if path == root || strings.HasSuffix(path, ".wdl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
