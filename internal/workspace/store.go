package workspace

import (
	"sync"

	"github.com/henri123lemoine/treehouse/internal/paths"
)

// FormState is the transient state of the create form.
type FormState struct {
	BranchName string
	BaseBranch string
	Visible    bool
}

// Store is the single source of truth for the selected project, the global
// worktree root and the last fetched worktree list. Nothing here is
// persisted.
type Store struct {
	mu          sync.RWMutex
	projectPath string
	globalRoot  string
	worktrees   []Worktree
	form        FormState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetProject sets the primary repository path.
func (s *Store) SetProject(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectPath = path
}

// ProjectPath returns the primary repository path, or "" when unset.
func (s *Store) ProjectPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectPath
}

// SetGlobalRoot sets the directory new worktrees are created under.
func (s *Store) SetGlobalRoot(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalRoot = path
}

// GlobalRoot returns the worktree root, or "" when unset.
func (s *Store) GlobalRoot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalRoot
}

// setRootIfEmpty sets the root only when none is configured and reports
// whether it did.
func (s *Store) setRootIfEmpty(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.globalRoot != "" || path == "" {
		return false
	}
	s.globalRoot = path
	return true
}

// ReplaceWorktrees swaps in a freshly fetched list.
func (s *Store) ReplaceWorktrees(list []Worktree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worktrees = append([]Worktree(nil), list...)
}

// Worktrees returns the full last fetched list.
func (s *Store) Worktrees() []Worktree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Worktree(nil), s.worktrees...)
}

// VisibleWorktrees returns the worktrees under the global root in fetch
// order.
func (s *Store) VisibleWorktrees() []Worktree {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]Worktree, 0, len(s.worktrees))
	for _, wt := range s.worktrees {
		if paths.IsUnderRoot(wt.Path, s.globalRoot) {
			visible = append(visible, wt)
		}
	}
	return visible
}

// PreviewPath returns the target path for the branch currently in the form.
func (s *Store) PreviewPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paths.PreviewPath(s.globalRoot, s.projectPath, s.form.BranchName)
}

// ProjectName returns the display name of the selected project.
func (s *Store) ProjectName() string {
	return paths.ProjectName(s.ProjectPath())
}

// Form returns a copy of the create form state.
func (s *Store) Form() FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

func (s *Store) updateForm(fn func(f *FormState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.form)
}
