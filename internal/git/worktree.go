package git

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/henri123lemoine/treehouse/internal/workspace"
)

// Client is a worktree engine backed by the git CLI. Create and Remove are
// serialized per repository through a file lock so that two treehouse
// processes never mutate the same repository's worktrees at once.
type Client struct {
	// DeleteBranch deletes the worktree's branch after removing it.
	DeleteBranch bool

	// LockDir holds the per-repository lock files. Empty means the user
	// cache directory.
	LockDir string

	// LockTimeout bounds how long a mutation waits for the lock.
	LockTimeout time.Duration
}

// NewClient returns a Client with default lock settings.
func NewClient(deleteBranch bool) *Client {
	return &Client{
		DeleteBranch: deleteBranch,
		LockTimeout:  10 * time.Second,
	}
}

// List returns the worktrees of the repository at projectPath, in the order
// git reports them.
func (c *Client) List(ctx context.Context, projectPath string) ([]workspace.Worktree, error) {
	output, err := runGit(ctx, projectPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees at '%s': %w", projectPath, err)
	}
	return parseWorktreeList(output), nil
}

// parseWorktreeList parses the porcelain output of git worktree list.
func parseWorktreeList(output string) []workspace.Worktree {
	var worktrees []workspace.Worktree
	var current *workspace.Worktree

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, "worktree "):
			if current != nil {
				worktrees = append(worktrees, *current)
			}
			current = &workspace.Worktree{
				Path: strings.TrimPrefix(line, "worktree "),
			}
		case current == nil:
			// Attribute lines before the first record.
		case strings.HasPrefix(line, "HEAD "):
			current.HeadHash = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			branch := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(branch, "refs/heads/")
		case line == "detached":
			current.Branch = ""
		}
	}

	if current != nil {
		worktrees = append(worktrees, *current)
	}

	return worktrees
}

// Create adds a worktree at req.Path on a new branch req.Branch, starting
// from req.Base when set.
func (c *Client) Create(ctx context.Context, req workspace.CreateRequest) error {
	unlock, err := c.lock(ctx, req.ProjectPath)
	if err != nil {
		return err
	}
	defer unlock()

	args := []string{"worktree", "add", "-b", req.Branch, filepath.FromSlash(req.Path)}
	if req.Base != "" {
		args = append(args, req.Base)
	}

	if _, err := runGit(ctx, req.ProjectPath, args...); err != nil {
		return fmt.Errorf("failed to create worktree: %w", err)
	}
	return nil
}

// Remove force-removes the worktree and, when configured, deletes its
// branch.
func (c *Client) Remove(ctx context.Context, req workspace.RemoveRequest) error {
	unlock, err := c.lock(ctx, req.ProjectPath)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := runGit(ctx, req.ProjectPath, "worktree", "remove", "--force", req.WorktreePath); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}

	if !c.DeleteBranch || req.Branch == "" {
		return nil
	}
	if _, err := runGit(ctx, req.ProjectPath, "branch", "-D", req.Branch); err != nil {
		return fmt.Errorf("worktree removed, but failed to delete branch '%s': %w", req.Branch, err)
	}
	return nil
}
