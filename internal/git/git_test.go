package git

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/henri123lemoine/treehouse/internal/workspace"
)

// TestParseWorktreeList tests parsing of git worktree list --porcelain output.
func TestParseWorktreeList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []workspace.Worktree
	}{
		{
			name: "single worktree",
			input: `worktree /path/to/repo
HEAD abc123def456
branch refs/heads/main

`,
			expected: []workspace.Worktree{
				{Path: "/path/to/repo", HeadHash: "abc123def456", Branch: "main"},
			},
		},
		{
			name: "multiple worktrees keep order",
			input: `worktree /path/to/repo
HEAD abc123def456
branch refs/heads/main

worktree /wt/repo-feature-auth
HEAD def789abc012
branch refs/heads/feature/auth

`,
			expected: []workspace.Worktree{
				{Path: "/path/to/repo", HeadHash: "abc123def456", Branch: "main"},
				{Path: "/wt/repo-feature-auth", HeadHash: "def789abc012", Branch: "feature/auth"},
			},
		},
		{
			name: "detached head",
			input: `worktree /path/to/repo
HEAD abc123def456
detached

`,
			expected: []workspace.Worktree{
				{Path: "/path/to/repo", HeadHash: "abc123def456"},
			},
		},
		{
			name: "bare and locked entries",
			input: `worktree /srv/repo.git
bare

worktree /wt/x
HEAD 0123456789
branch refs/heads/x
locked reason here
`,
			expected: []workspace.Worktree{
				{Path: "/srv/repo.git"},
				{Path: "/wt/x", HeadHash: "0123456789", Branch: "x"},
			},
		},
		{
			name:  "windows line endings and paths",
			input: "worktree C:/src/api\r\nHEAD aaa\r\nbranch refs/heads/main\r\n\r\n",
			expected: []workspace.Worktree{
				{Path: "C:/src/api", HeadHash: "aaa", Branch: "main"},
			},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseWorktreeList(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("Expected %d worktrees, got %d", len(tt.expected), len(result))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("worktree %d = %+v, want %+v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLockPath(t *testing.T) {
	c := &Client{LockDir: "/tmp/locks"}

	a := c.lockPath("/src/api")
	b := c.lockPath("/other/api")
	if a == b {
		t.Errorf("repos sharing a base name got the same lock: %s", a)
	}
	if c.lockPath("/src/api/") != a {
		t.Error("trailing separator should not change the lock path")
	}
	if filepath.Dir(a) != "/tmp/locks" {
		t.Errorf("lock not under LockDir: %s", a)
	}
	if !strings.HasPrefix(filepath.Base(a), "api-") {
		t.Errorf("lock name should start with the repo name: %s", a)
	}
}

func TestDefaultLockDir(t *testing.T) {
	c := NewClient(true)
	if !strings.Contains(c.lockPath("/src/api"), "treehouse") {
		t.Errorf("default lock path should live in a treehouse directory: %s", c.lockPath("/src/api"))
	}
}
