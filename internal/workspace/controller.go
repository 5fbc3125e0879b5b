package workspace

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/henri123lemoine/treehouse/internal/debug"
	"github.com/henri123lemoine/treehouse/internal/paths"
)

// Picker dialog titles.
const (
	SelectProjectTitle = "Select project repository"
	SelectRootTitle    = "Select worktree root"
)

// Controller turns user intents into store updates and engine calls.
type Controller struct {
	store   *Store
	runner  *Runner
	picker  Picker
	confirm Confirmer
	log     *zap.Logger
}

// Options configures a Controller.
type Options struct {
	Engine    Engine
	Picker    Picker
	Confirmer Confirmer

	// GlobalRoot seeds the worktree root for the session.
	GlobalRoot string
}

// NewController creates a Controller with an empty store.
func NewController(opts Options) *Controller {
	store := NewStore()
	if opts.GlobalRoot != "" {
		store.SetGlobalRoot(opts.GlobalRoot)
	}
	return &Controller{
		store:   store,
		runner:  NewRunner(opts.Engine, store),
		picker:  opts.Picker,
		confirm: opts.Confirmer,
		log:     debug.Logger("controller"),
	}
}

// Store returns the controller's store.
func (c *Controller) Store() *Store { return c.store }

// Runner returns the controller's operation runner.
func (c *Controller) Runner() *Runner { return c.runner }

// SelectProject asks the picker for a project directory and applies it.
// A cancelled picker is not an error.
func (c *Controller) SelectProject(ctx context.Context) error {
	path, err := c.pick(ctx, SelectProjectTitle)
	if err != nil || path == "" {
		return err
	}
	return c.ApplyProjectSelection(ctx, path)
}

// ApplyProjectSelection makes path the current project, derives the root
// from it when none is configured yet, and fetches its worktrees.
func (c *Controller) ApplyProjectSelection(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	c.store.SetProject(path)
	if root := paths.DefaultRoot(path); c.store.setRootIfEmpty(root) {
		c.log.Debug("derived default root", zap.String("root", root))
	}
	return c.runner.List(ctx)
}

// SelectGlobalRoot asks the picker for the worktree root and applies it.
func (c *Controller) SelectGlobalRoot(ctx context.Context) error {
	path, err := c.pick(ctx, SelectRootTitle)
	if err != nil || path == "" {
		return err
	}
	c.ApplyRootSelection(path)
	return nil
}

// ApplyRootSelection replaces the worktree root.
func (c *Controller) ApplyRootSelection(path string) {
	if path == "" {
		return
	}
	c.store.SetGlobalRoot(path)
}

func (c *Controller) pick(ctx context.Context, title string) (string, error) {
	if c.picker == nil {
		err := fmt.Errorf("no directory picker available")
		c.runner.Report(err)
		return "", err
	}
	path, err := c.picker.PickDirectory(ctx, title)
	if err != nil {
		err = fmt.Errorf("failed to open directory picker: %w", err)
		c.runner.Report(err)
		return "", err
	}
	return path, nil
}

// OpenCreateForm shows the create form.
func (c *Controller) OpenCreateForm() {
	c.store.updateForm(func(f *FormState) { f.Visible = true })
}

// CancelCreateForm hides the create form and clears its fields.
func (c *Controller) CancelCreateForm() {
	c.store.updateForm(func(f *FormState) { *f = FormState{} })
}

// SetBranchName updates the branch field of the create form.
func (c *Controller) SetBranchName(name string) {
	c.store.updateForm(func(f *FormState) { f.BranchName = name })
}

// SetBaseBranch updates the base branch field of the create form.
func (c *Controller) SetBaseBranch(name string) {
	c.store.updateForm(func(f *FormState) { f.BaseBranch = name })
}

// CanSubmit reports whether the create form can be submitted.
func (c *Controller) CanSubmit() bool {
	return c.store.GlobalRoot() != "" && c.store.Form().BranchName != ""
}

// SubmitCreate creates a worktree for the form's branch at the current
// preview path. It is a no-op without a branch name or root. On success the
// form closes and the branch name is cleared; the base branch is kept.
func (c *Controller) SubmitCreate(ctx context.Context) error {
	form := c.store.Form()
	if form.BranchName == "" || c.store.GlobalRoot() == "" {
		return nil
	}

	req := CreateRequest{
		ProjectPath: c.store.ProjectPath(),
		Path:        c.store.PreviewPath(),
		Branch:      form.BranchName,
		Base:        strings.TrimSpace(form.BaseBranch),
	}
	if err := c.runner.Create(ctx, req); err != nil {
		return err
	}

	c.store.updateForm(func(f *FormState) {
		f.Visible = false
		f.BranchName = ""
	})
	return nil
}

// RemovalPrompt returns the confirmation message for removing wt.
func RemovalPrompt(wt Worktree) string {
	if wt.IsDetached() {
		return fmt.Sprintf("Remove worktree %s (detached HEAD)? This cannot be undone.", wt.Path)
	}
	return fmt.Sprintf("Remove worktree %s and branch %s? This cannot be undone.", wt.Path, wt.Branch)
}

// RemoveWorktree asks the confirmer before removing wt. Declining makes no
// engine call and leaves the runner state untouched.
func (c *Controller) RemoveWorktree(ctx context.Context, wt Worktree) error {
	if c.confirm == nil || !c.confirm.Confirm(RemovalPrompt(wt)) {
		c.log.Debug("removal declined", zap.String("path", wt.Path))
		return nil
	}
	return c.RemoveConfirmed(ctx, wt)
}

// RemoveConfirmed removes wt without asking. Callers must have obtained
// confirmation for RemovalPrompt(wt) themselves.
func (c *Controller) RemoveConfirmed(ctx context.Context, wt Worktree) error {
	return c.runner.Remove(ctx, RemoveRequest{
		ProjectPath:  c.store.ProjectPath(),
		WorktreePath: wt.Path,
		Branch:       wt.Branch,
	})
}

// Refresh re-fetches the worktree list.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.runner.List(ctx)
}

// OpenFolder opens path through the engine.
func (c *Controller) OpenFolder(ctx context.Context, path string) error {
	return c.runner.OpenFolder(ctx, path)
}
