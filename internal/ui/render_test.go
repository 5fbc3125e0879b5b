package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/henri123lemoine/treehouse/internal/workspace"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func TestRenderListShowsWorktrees(t *testing.T) {
	out := plain(Render(RenderParams{
		State:        StateList,
		ProjectPath:  "/src/api",
		ProjectName:  "api",
		GlobalRoot:   "/src",
		Worktrees:    []workspace.Worktree{{Path: "/src/api", Branch: "main", HeadHash: "abcdef0123"}, {Path: "/src/api-x", HeadHash: "1234567890"}},
		TotalCount:   2,
		VisibleCount: 10,
		Width:        100,
		Height:       30,
	}))

	assert.Contains(t, out, "api")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "abcdef0")
	assert.NotContains(t, out, "abcdef01")
	assert.Contains(t, out, "(detached)")
	assert.Contains(t, out, "/src/api-x")
}

func TestRenderListWithoutProject(t *testing.T) {
	out := plain(Render(RenderParams{State: StateList, Width: 100, Height: 30}))
	assert.Contains(t, out, "No project selected")
}

func TestRenderListFilteredCount(t *testing.T) {
	out := plain(Render(RenderParams{
		State:        StateList,
		ProjectPath:  "/src/api",
		ProjectName:  "api",
		GlobalRoot:   "/wt",
		Worktrees:    nil,
		TotalCount:   3,
		VisibleCount: 10,
		Width:        100,
		Height:       30,
	}))
	assert.Contains(t, out, "No worktrees under the current root")
}

func TestRenderErrorHasDismissHint(t *testing.T) {
	out := plain(Render(RenderParams{
		State:       StateList,
		ProjectPath: "/src/api",
		Err:         "failed to list worktrees",
		Width:       100,
		Height:      30,
	}))
	assert.Contains(t, out, "failed to list worktrees")
	assert.Contains(t, out, "x dismiss")
}

func TestRenderCreateWithoutRoot(t *testing.T) {
	out := plain(Render(RenderParams{
		State:       StateCreate,
		ProjectPath: "/src/api",
		ProjectName: "api",
		BranchInput: "feature/x",
		Width:       100,
		Height:      30,
	}))
	assert.Contains(t, out, "No worktree root set")
}

func TestRenderCreatePreview(t *testing.T) {
	out := plain(Render(RenderParams{
		State:       StateCreate,
		ProjectName: "api",
		GlobalRoot:  "/wt",
		PreviewPath: "/wt/api-feature-x",
		CanSubmit:   true,
		Width:       100,
		Height:      30,
	}))
	assert.Contains(t, out, "/wt/api-feature-x")
}

func TestRenderDeletePrompt(t *testing.T) {
	prompt := workspace.RemovalPrompt(workspace.Worktree{Path: "/wt/api-x", Branch: "x"})
	out := plain(Render(RenderParams{State: StateDelete, DeletePrompt: prompt, Width: 200, Height: 30}))
	assert.Contains(t, out, "/wt/api-x")
	assert.Contains(t, out, "y confirm")
}

func TestRenderSmallTerminalClamps(t *testing.T) {
	out := Render(RenderParams{State: StateHelp, Width: 5, Height: 2})
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), MinWidth)
	}
}

func TestFlavorFromName(t *testing.T) {
	assert.Equal(t, "latte", FlavorFromName("latte").Name())
	assert.Equal(t, "mocha", FlavorFromName("unknown").Name())
}
