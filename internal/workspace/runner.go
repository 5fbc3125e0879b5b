package workspace

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/henri123lemoine/treehouse/internal/debug"
)

// Runner wraps every engine call with the shared loading flag and the
// current error. Mutations never touch the store directly: a successful
// create or remove is followed by a fresh list so the store always mirrors
// what the engine reports.
type Runner struct {
	engine Engine
	store  *Store
	log    *zap.Logger

	mu      sync.Mutex
	loading bool
	errMsg  string
}

// NewRunner creates a Runner over engine that writes fetched lists to store.
func NewRunner(engine Engine, store *Store) *Runner {
	return &Runner{
		engine: engine,
		store:  store,
		log:    debug.Logger("runner"),
	}
}

// Loading reports whether an engine call is in flight. It is advisory.
func (r *Runner) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the current error message, or "" when there is none.
func (r *Runner) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}

// DismissError clears the current error.
func (r *Runner) DismissError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errMsg = ""
}

// Report records err as the current error, replacing any previous one.
func (r *Runner) Report(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if msg == "" {
		msg = "operation failed"
	}
	r.mu.Lock()
	r.errMsg = msg
	r.mu.Unlock()
}

func (r *Runner) clearError() {
	r.mu.Lock()
	r.errMsg = ""
	r.mu.Unlock()
}

func (r *Runner) setLoading(v bool) {
	r.mu.Lock()
	r.loading = v
	r.mu.Unlock()
}

// run dispatches call with the loading flag raised. The flag is lowered
// whatever the outcome.
func (r *Runner) run(op string, call func() error, fields ...zap.Field) error {
	r.clearError()
	r.setLoading(true)
	defer r.setLoading(false)
	defer debug.Timed(op, fields...)()

	if err := call(); err != nil {
		r.log.Warn(op+" failed", append(fields, zap.Error(err))...)
		r.Report(err)
		return err
	}
	return nil
}

// List fetches the worktrees of the current project and replaces the
// store's list. Without a project it does nothing.
func (r *Runner) List(ctx context.Context) error {
	project := r.store.ProjectPath()
	if project == "" {
		r.log.Debug("list skipped, no project")
		return nil
	}

	return r.run("list", func() error {
		list, err := r.engine.List(ctx, project)
		if err != nil {
			return err
		}
		r.store.ReplaceWorktrees(list)
		r.log.Debug("list replaced", zap.Int("count", len(list)))
		return nil
	}, zap.String("project", project))
}

// Create asks the engine to create a worktree, then refreshes the list.
// The returned error is the create failure only; a failed refresh is
// recorded as the current error.
func (r *Runner) Create(ctx context.Context, req CreateRequest) error {
	err := r.run("create", func() error {
		return r.engine.Create(ctx, req)
	}, zap.String("path", req.Path), zap.String("branch", req.Branch), zap.String("base", req.Base))
	if err != nil {
		return err
	}
	_ = r.List(ctx)
	return nil
}

// Remove asks the engine to remove a worktree, then refreshes the list.
// Error semantics match Create.
func (r *Runner) Remove(ctx context.Context, req RemoveRequest) error {
	err := r.run("remove", func() error {
		return r.engine.Remove(ctx, req)
	}, zap.String("path", req.WorktreePath), zap.String("branch", req.Branch))
	if err != nil {
		return err
	}
	_ = r.List(ctx)
	return nil
}

// OpenFolder asks the engine to open path. It leaves the loading flag and
// the worktree list alone.
func (r *Runner) OpenFolder(ctx context.Context, path string) error {
	r.clearError()
	if err := r.engine.OpenFolder(ctx, path); err != nil {
		r.log.Warn("open failed", zap.String("path", path), zap.Error(err))
		r.Report(err)
		return err
	}
	return nil
}
