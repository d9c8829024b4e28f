// Package pathutil keeps file access by the MCP server inside its root
// directory and shortens paths for error messages.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath reduces a full path to .../<parent>/<basename> for safe error messages.
// For example, "/home/user/rosters/senate.toml" becomes ".../rosters/senate.toml".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(cleaned)
	}
	return ".../" + parent + "/" + filepath.Base(cleaned)
}

// ResolveWithin returns the absolute form of path, interpreting relative
// paths against root. Symlinks are resolved and the result must lie inside
// root.
func ResolveWithin(root, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path validation failed: path is empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("path validation failed: path contains null byte")
	}

	rootAbs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("path validation failed: cannot resolve root: %w", err)
	}
	rootResolved, err := resolveExisting(rootAbs)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(rootAbs, candidate)
	}
	resolved, err := resolveExisting(filepath.Clean(candidate))
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}

	if !isSubpath(resolved, rootResolved) {
		return "", fmt.Errorf("path validation failed: %q is outside %s", RedactPath(resolved), RedactPath(rootResolved))
	}
	return resolved, nil
}

// resolveExisting resolves symlinks on the deepest existing ancestor of p
// and re-appends the part that does not exist yet.
func resolveExisting(p string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(p)
	if parent == p {
		return "", fmt.Errorf("cannot resolve path: %s", RedactPath(p))
	}
	resolvedParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(p)), nil
}

// isSubpath checks whether path is equal to or below base.
func isSubpath(path, base string) bool {
	if path == base {
		return true
	}
	// "/tmp/foo" must not match "/tmp/foobar"
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}
