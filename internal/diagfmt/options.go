// Package diagfmt renders diagnostic bags for humans and machines.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	// ShowFixes renders a before/after preview under diagnostics that
	// carry applicable edits.
	ShowFixes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	// IncludePositions adds line/col to every location.
	IncludePositions bool
	PathMode         PathMode
	// Max truncates the output, not the bag. 0 means everything.
	Max          int
	IncludeFixes bool
}
