package workspace

import (
	"context"
)

// Worktree is a worktree as reported by the engine. Path is unique within a
// single list response and identifies the worktree for rendering and
// removal.
type Worktree struct {
	Path     string `json:"path" yaml:"path"`
	Branch   string `json:"branch,omitempty" yaml:"branch,omitempty"` // empty when HEAD is detached
	HeadHash string `json:"head" yaml:"head"`
}

// IsDetached reports whether the worktree has no branch checked out.
func (w Worktree) IsDetached() bool {
	return w.Branch == ""
}

// ShortHash returns the abbreviated commit hash for display.
func (w Worktree) ShortHash() string {
	if len(w.HeadHash) > 7 {
		return w.HeadHash[:7]
	}
	return w.HeadHash
}

// CreateRequest describes a worktree to create. An empty Base means the
// engine picks the starting point.
type CreateRequest struct {
	ProjectPath string
	Path        string
	Branch      string
	Base        string
}

// RemoveRequest describes a worktree to remove. Branch may be empty when it
// is unknown or the worktree is detached.
type RemoveRequest struct {
	ProjectPath  string
	WorktreePath string
	Branch       string
}

// Engine performs the actual worktree operations.
type Engine interface {
	List(ctx context.Context, projectPath string) ([]Worktree, error)
	Create(ctx context.Context, req CreateRequest) error
	Remove(ctx context.Context, req RemoveRequest) error
	OpenFolder(ctx context.Context, path string) error
}

// Picker asks the user for a single directory. An empty result with a nil
// error means the user cancelled.
type Picker interface {
	PickDirectory(ctx context.Context, title string) (string, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context, title string) (string, error)

// PickDirectory calls f.
func (f PickerFunc) PickDirectory(ctx context.Context, title string) (string, error) {
	return f(ctx, title)
}

// Confirmer blocks until the user accepts or declines message.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}
