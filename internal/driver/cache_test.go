package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func cachedOptions(t *testing.T) Options {
	t.Helper()
	cfg := testConfig()
	cfg.Cache.Disabled = false
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	return Options{Config: cfg}
}

func TestCacheRoundTrip(t *testing.T) {
	opts := cachedOptions(t)
	path := writeFile(t, t.TempDir(), "doc.wdl", "version 1.1   \n")
	ctx := context.Background()

	_, first, err := LintPaths(ctx, []string{path}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first) != 1 || first[0].Cached {
		t.Fatalf("first run results = %+v, want one uncached", first)
	}

	_, second, err := LintPaths(ctx, []string{path}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second) != 1 || !second[0].Cached {
		t.Fatalf("second run results = %+v, want one cached", second)
	}
	if !reflect.DeepEqual(first[0].Bag.Items(), second[0].Bag.Items()) {
		t.Errorf("cached diagnostics differ:\nfresh:  %+v\ncached: %+v",
			first[0].Bag.Items(), second[0].Bag.Items())
	}
}

func TestCacheInvalidatedByContentChange(t *testing.T) {
	opts := cachedOptions(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.wdl", "version 1.1   \n")
	ctx := context.Background()

	if _, _, err := LintPaths(ctx, []string{path}, opts); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("version 1.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, results, err := LintPaths(ctx, []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Cached {
		t.Error("changed content served from cache")
	}
	if results[0].Bag.Len() != 0 {
		t.Errorf("clean content still reports %v", results[0].Bag.Items())
	}
}

func TestCacheInvalidatedByConfigChange(t *testing.T) {
	opts := cachedOptions(t)
	path := writeFile(t, t.TempDir(), "doc.wdl", "version 1.1   \n")
	ctx := context.Background()

	if _, _, err := LintPaths(ctx, []string{path}, opts); err != nil {
		t.Fatal(err)
	}

	opts.Config.Lint.Except = []string{"TrailingWhitespace"}
	_, results, err := LintPaths(ctx, []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Cached {
		t.Error("different rule set served from cache")
	}
	if results[0].Bag.Len() != 0 {
		t.Errorf("excepted rule still reports %v", results[0].Bag.Items())
	}
}

func TestCacheClear(t *testing.T) {
	opts := cachedOptions(t)
	path := writeFile(t, t.TempDir(), "doc.wdl", "version 1.1   \n")
	ctx := context.Background()

	if _, _, err := LintPaths(ctx, []string{path}, opts); err != nil {
		t.Fatal(err)
	}
	if err := ClearCache(opts); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}

	_, results, err := LintPaths(ctx, []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Cached {
		t.Error("cleared cache still serves entries")
	}
}

func TestCacheDisabled(t *testing.T) {
	cfg := testConfig()
	opts := Options{Config: cfg, NoCache: true}
	path := writeFile(t, t.TempDir(), "doc.wdl", "version 1.1   \n")
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		_, results, err := LintPaths(ctx, []string{path}, opts)
		if err != nil {
			t.Fatal(err)
		}
		if results[0].Cached {
			t.Fatalf("run %d: cache hit with caching off", run)
		}
	}
}
