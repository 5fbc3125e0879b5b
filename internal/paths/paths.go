// Package paths computes worktree target paths and root containment.
//
// Everything here is string arithmetic. Nothing touches the filesystem, and
// the results are display/target strings rather than verified paths: the
// engine owns final separator handling when it creates the worktree.
package paths

import (
	"strings"
)

// FallbackProjectName is used when no project is selected.
const FallbackProjectName = "Repo"

// isSeparator reports whether r is either path separator convention.
func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// segments splits p on both separator conventions.
func segments(p string) []string {
	return strings.FieldsFunc(p, isSeparator)
}

// ProjectName returns the last non-empty segment of projectPath.
func ProjectName(projectPath string) string {
	parts := segments(projectPath)
	if len(parts) == 0 {
		return FallbackProjectName
	}
	return parts[len(parts)-1]
}

// SanitizeBranch turns a branch name into a single path segment,
// e.g. "feature/login" becomes "feature-login". Branch legality is the
// engine's problem.
func SanitizeBranch(branch string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return '-'
		}
		return r
	}, branch)
}

// PreviewPath returns where a worktree for branch would be created, or ""
// unless both root and branch are set. The join always uses "/".
func PreviewPath(root, projectPath, branch string) string {
	if root == "" || branch == "" {
		return ""
	}
	base := strings.TrimRightFunc(root, isSeparator)
	return base + "/" + ProjectName(projectPath) + "-" + SanitizeBranch(branch)
}

// DefaultRoot returns the parent directory of projectPath, keeping the
// separator style of the input. A project directly under the filesystem
// root yields that root.
func DefaultRoot(projectPath string) string {
	trimmed := strings.TrimRightFunc(projectPath, isSeparator)
	if trimmed == "" {
		return ""
	}

	sep := "/"
	if i := strings.IndexFunc(trimmed, isSeparator); i >= 0 {
		sep = trimmed[i : i+1]
	} else {
		// Single segment, nothing to drop into.
		return ""
	}

	cut := strings.LastIndexFunc(trimmed, isSeparator)
	parent := strings.TrimRightFunc(trimmed[:cut], isSeparator)
	if parent == "" {
		return sep
	}
	if strings.HasSuffix(parent, ":") {
		// Windows drive root, "C:\repo" -> "C:\".
		return parent + sep
	}
	return parent
}

// Normalize folds a path for containment comparison only: forward slashes,
// lower case, one trailing separator stripped. Never hand the result to the
// engine.
func Normalize(p string) string {
	n := strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(n, "/")
}

// IsUnderRoot reports whether worktreePath lies inside root. An empty root
// matches everything. Containment respects segment boundaries, so "/a/b"
// does not contain "/a/bc".
func IsUnderRoot(worktreePath, root string) bool {
	if root == "" {
		return true
	}
	p := Normalize(worktreePath)
	r := Normalize(root)
	return p == r || strings.HasPrefix(p, r+"/")
}
