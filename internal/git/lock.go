package git

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// lockPath returns the lock file for the repository at projectPath.
func (c *Client) lockPath(projectPath string) string {
	dir := c.LockDir
	if dir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = os.TempDir()
		}
		dir = filepath.Join(cacheDir, "treehouse", "locks")
	}

	// Hash the cleaned path so repos sharing a base name do not collide.
	h := fnv.New64a()
	_, _ = h.Write([]byte(filepath.Clean(projectPath)))
	return filepath.Join(dir, fmt.Sprintf("%s-%x.lock", filepath.Base(projectPath), h.Sum64()))
}

// lock takes the exclusive per-repository lock, waiting up to LockTimeout.
func (c *Client) lock(ctx context.Context, projectPath string) (func(), error) {
	path := c.lockPath(projectPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to prepare lock: %w", err)
	}

	if c.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.LockTimeout)
		defer cancel()
	}

	fileLock := flock.New(path)
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("repository %s is busy: %w", projectPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("repository %s is busy", projectPath)
	}

	return func() { _ = fileLock.Unlock() }, nil
}
