// Package importer resolves import statements to canonical file paths and
// deduplicates re-imports of the same file across a compilation.
package importer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/xenon-lang/xenon/internal/diag"
	"github.com/xenon-lang/xenon/internal/token"
)

// sourceExt is the extension a bare import name resolves to when the
// name itself carries no extension.
const sourceExt = ".x"

// dirEntryFile is the file an import resolves to when the import names a
// directory rather than a file.
const dirEntryFile = "mod.x"

// Resolver searches an ordered list of include roots for import targets and
// remembers, by canonical path, which files have already been imported —
// so that re-importing the same file (directly, or transitively through
// two different import statements) is a silent no-op rather than a second
// pass over the same declarations.
type Resolver struct {
	roots    []string
	resolved map[string]bool // canonical path -> already imported
}

// New creates a Resolver searching roots in order; roots[0] is always
// searched first (the importing file's own directory, conventionally).
func New(roots ...string) *Resolver {
	return &Resolver{roots: roots, resolved: make(map[string]bool)}
}

// AddRoot appends another directory to the end of the search path, e.g.
// once the first file's own directory becomes known to the driver.
func (r *Resolver) AddRoot(dir string) {
	r.roots = append(r.roots, dir)
}

// Resolve finds the file import names (bare name, `.x` fallback,
// directory→mod.x fallback, searched across every root in order) and
// returns its canonical absolute path. It does not read the file or
// consult the dedup cache — see Visit for that.
func (r *Resolver) Resolve(name string, pos token.Position) (string, error) {
	candidates := importCandidates(name)
	for _, root := range r.roots {
		for _, c := range candidates {
			full := filepath.Join(root, c)
			if st, err := os.Stat(full); err == nil {
				if st.IsDir() {
					entry := filepath.Join(full, dirEntryFile)
					if _, err := os.Stat(entry); err == nil {
						return canonicalize(entry)
					}
					continue
				}
				return canonicalize(full)
			}
		}
	}
	return "", diag.New(diag.ImportFailure, pos, "cannot find import %q in any of %d search root(s)", name, len(r.roots))
}

// importCandidates lists, in priority order, the filesystem names `name`
// might refer to: the literal name, then, if it has no extension, the
// literal name with ".x" appended. Resolve itself handles the
// directory/mod.x check when a candidate names a directory; this just
// orders the file-name attempts.
func importCandidates(name string) []string {
	if filepath.Ext(name) != "" {
		return []string{name}
	}
	return []string{name, name + sourceExt}
}

// canonicalize resolves symlinks and relative segments so that two import
// statements naming the same file through different paths land on the
// same dedup key.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "importer: canonicalize %q", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The file was just Stat'd successfully; a symlink resolution
		// failure here means a race, not a missing file. Fall back to the
		// absolute path rather than fail the whole import.
		return abs, nil
	}
	return resolved, nil
}

// Visit records that path (a value previously returned by Resolve) is
// about to be imported, returning false if it was already imported
// before — the caller should skip re-lowering its declarations in that
// case.
func (r *Resolver) Visit(canonicalPath string) (first bool) {
	if r.resolved[canonicalPath] {
		return false
	}
	r.resolved[canonicalPath] = true
	return true
}

// ReadSource loads the contents of an already-resolved import path.
func ReadSource(canonicalPath string) (string, error) {
	data, err := os.ReadFile(canonicalPath)
	if err != nil {
		return "", errors.Wrapf(err, "importer: read %q", canonicalPath)
	}
	return string(data), nil
}

// Dir returns the directory component of path, suitable for pushing as a
// new search root when descending into an imported file (so that file's
// own relative imports resolve against its own directory first).
func Dir(path string) string {
	return filepath.Dir(path)
}

// SplitScopedPath turns a scoped import name such as "foo::bar::baz" into
// its filesystem segments ("foo/bar/baz"), the form namespace-qualified
// imports take before extension/directory fallback is applied.
func SplitScopedPath(name string) string {
	return strings.ReplaceAll(name, "::", string(filepath.Separator))
}
