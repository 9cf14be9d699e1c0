package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"wdlint/internal/config"
	"wdlint/internal/diag"
	"wdlint/internal/source"
)

// Increment when the payload format changes; stale entries then miss
// instead of decoding garbage.
const cacheSchemaVersion uint16 = 1

// diskCache stores lint results keyed by content hash. A nil *diskCache is
// a valid always-miss cache, so callers never branch on availability.
type diskCache struct {
	mu  sync.RWMutex
	dir string
}

// cachePayload is the serialized result for one (file content, rule set)
// pair. Spans are stored as plain offsets; the FileID is rebound on
// restore since IDs are per-run.
type cachePayload struct {
	Schema      uint16
	Fingerprint string
	Diagnostics []cachedDiagnostic
}

type cachedDiagnostic struct {
	Severity uint8
	Rule     string
	Message  string
	Start    uint32
	End      uint32
	Labels   []cachedLabel
	FixHint  string
	Edits    []cachedEdit
	HasFix   bool
}

type cachedLabel struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedEdit struct {
	Start      uint32
	End        uint32
	Insertion  uint8
	Text       string
	Precedence int
}

// openCache returns the disk cache for this run, or nil when caching is
// off or the cache directory cannot be created.
func openCache(opts Options) *diskCache {
	if opts.NoCache || opts.Config.Cache.Disabled {
		return nil
	}
	dir := opts.Config.Cache.Dir
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "wdlint")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	return &diskCache{dir: dir}
}

// ruleFingerprint digests everything that influences diagnostics besides
// the file content, so a config change invalidates cached results.
func ruleFingerprint(cfg config.Config) string {
	h := sha256.New()
	var ids []string
	for _, r := range selectRules(cfg) {
		ids = append(ids, r.ID())
	}
	sort.Strings(ids)
	h.Write([]byte(strings.Join(ids, ",")))
	h.Write([]byte{0})
	h.Write([]byte(cfg.ShellCheck.Bin))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *diskCache) pathFor(hash [32]byte) string {
	return filepath.Join(c.dir, "results", hex.EncodeToString(hash[:])+".mp")
}

// lookup returns the cached diagnostics for the file, if the entry exists
// and was produced by the same rule set.
func (c *diskCache) lookup(file *source.File, fingerprint string) ([]cachedDiagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(file.Hash))
	if err != nil {
		return nil, false
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion || payload.Fingerprint != fingerprint {
		return nil, false
	}
	return payload.Diagnostics, true
}

// store writes the diagnostics for the file atomically: encode to a temp
// file, then rename into place.
func (c *diskCache) store(file *source.File, fingerprint string, items []diag.Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.pathFor(file.Hash)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return
	}
	defer os.Remove(f.Name()) //nolint:errcheck // temp cleanup

	payload := cachePayload{
		Schema:      cacheSchemaVersion,
		Fingerprint: fingerprint,
		Diagnostics: encodeDiagnostics(items),
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close() //nolint:errcheck // encode already failed
		return
	}
	if err := f.Close(); err != nil {
		return
	}
	_ = os.Rename(f.Name(), path)
}

// drop removes every cached entry, for `wdlint cache clear`.
func (c *diskCache) drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.RemoveAll(filepath.Join(c.dir, "results"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func encodeDiagnostics(items []diag.Diagnostic) []cachedDiagnostic {
	out := make([]cachedDiagnostic, 0, len(items))
	for _, d := range items {
		cd := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Rule:     d.Rule,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, l := range d.Labels {
			cd.Labels = append(cd.Labels, cachedLabel{
				Start: l.Span.Start,
				End:   l.Span.End,
				Msg:   l.Msg,
			})
		}
		if d.Fix != nil {
			cd.HasFix = true
			cd.FixHint = d.Fix.Hint
			for _, r := range d.Fix.Replacements {
				cd.Edits = append(cd.Edits, cachedEdit{
					Start:      r.Start,
					End:        r.End,
					Insertion:  uint8(r.Insertion),
					Text:       r.Text,
					Precedence: r.Precedence,
				})
			}
		}
		out = append(out, cd)
	}
	return out
}

// restoreDiagnostics rebinds cached diagnostics to the current run's file
// and feeds them through the bag like a fresh lint would.
func restoreDiagnostics(bag *diag.Bag, file *source.File, cached []cachedDiagnostic) {
	for _, cd := range cached {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Rule:     cd.Rule,
			Message:  cd.Message,
			Primary:  source.Span{File: file.ID, Start: cd.Start, End: cd.End},
		}
		for _, l := range cd.Labels {
			d.Labels = append(d.Labels, diag.Label{
				Span: source.Span{File: file.ID, Start: l.Start, End: l.End},
				Msg:  l.Msg,
			})
		}
		if cd.HasFix {
			fix := &diag.Fix{Hint: cd.FixHint}
			for _, e := range cd.Edits {
				fix.Replacements = append(fix.Replacements, diag.Replacement{
					Start:      e.Start,
					End:        e.End,
					Insertion:  diag.InsertionPoint(e.Insertion),
					Text:       e.Text,
					Precedence: e.Precedence,
				})
			}
			d.Fix = fix
		}
		bag.Add(d)
	}
}

// ClearCache removes all cached lint results for the given configuration.
func ClearCache(opts Options) error {
	return openCache(opts).drop()
}
