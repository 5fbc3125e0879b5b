package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectProjectDerivesRootOnce(t *testing.T) {
	engine := &fakeEngine{}
	picker := &scriptedPicker{answers: []string{"/src/api", "/elsewhere/web"}}
	c := NewController(Options{Engine: engine, Picker: picker})
	ctx := context.Background()

	require.NoError(t, c.SelectProject(ctx))
	assert.Equal(t, "/src/api", c.Store().ProjectPath())
	assert.Equal(t, "/src", c.Store().GlobalRoot())
	assert.Equal(t, 1, engine.count("list"))
	assert.Equal(t, []string{SelectProjectTitle}, picker.titles)

	// A second project never overwrites the existing root.
	require.NoError(t, c.SelectProject(ctx))
	assert.Equal(t, "/elsewhere/web", c.Store().ProjectPath())
	assert.Equal(t, "/src", c.Store().GlobalRoot())
	assert.Equal(t, []string{"/src/api", "/elsewhere/web"}, engine.listedAt)
}

func TestSelectProjectKeepsSeededRoot(t *testing.T) {
	c := NewController(Options{
		Engine:     &fakeEngine{},
		Picker:     &scriptedPicker{answers: []string{"/src/api"}},
		GlobalRoot: "/wt",
	})

	require.NoError(t, c.SelectProject(context.Background()))
	assert.Equal(t, "/wt", c.Store().GlobalRoot())
}

func TestSelectProjectCancelled(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(Options{Engine: engine, Picker: &scriptedPicker{}})

	require.NoError(t, c.SelectProject(context.Background()))

	assert.Empty(t, c.Store().ProjectPath())
	assert.Empty(t, c.Store().GlobalRoot())
	assert.Zero(t, engine.count("list"))
	assert.Empty(t, c.Runner().Err())
}

func TestSelectProjectPickerFailure(t *testing.T) {
	c := NewController(Options{Engine: &fakeEngine{}, Picker: &scriptedPicker{err: errBoom}})

	err := c.SelectProject(context.Background())

	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, c.Runner().Err(), "boom")
	assert.False(t, c.Runner().Loading())
}

func TestSelectProjectWithoutPicker(t *testing.T) {
	c := NewController(Options{Engine: &fakeEngine{}})

	require.Error(t, c.SelectProject(context.Background()))
	assert.NotEmpty(t, c.Runner().Err())
}

func TestSelectGlobalRootOverwrites(t *testing.T) {
	engine := &fakeEngine{}
	picker := &scriptedPicker{answers: []string{"/wt"}}
	c := NewController(Options{Engine: engine, Picker: picker, GlobalRoot: "/old"})

	require.NoError(t, c.SelectGlobalRoot(context.Background()))

	assert.Equal(t, "/wt", c.Store().GlobalRoot())
	assert.Equal(t, []string{SelectRootTitle}, picker.titles)
	assert.Zero(t, engine.count("list"))

	// Cancel keeps the current root.
	require.NoError(t, c.SelectGlobalRoot(context.Background()))
	assert.Equal(t, "/wt", c.Store().GlobalRoot())
}

func TestCreateFormLifecycle(t *testing.T) {
	c := NewController(Options{Engine: &fakeEngine{}})

	c.OpenCreateForm()
	assert.True(t, c.Store().Form().Visible)

	c.SetBranchName("feature/x")
	assert.False(t, c.CanSubmit(), "submit is disabled without a root")

	c.ApplyRootSelection("/wt")
	assert.True(t, c.CanSubmit())

	c.SetBaseBranch("main")
	c.CancelCreateForm()
	assert.Equal(t, FormState{}, c.Store().Form())
}

func TestSubmitCreate(t *testing.T) {
	engine := &fakeEngine{worktrees: []Worktree{{Path: "/wt/api-feature-x", Branch: "feature/x"}}}
	c := NewController(Options{Engine: engine, GlobalRoot: "/wt"})
	ctx := context.Background()
	require.NoError(t, c.ApplyProjectSelection(ctx, "/src/api"))
	engine.calls = nil

	c.OpenCreateForm()
	c.SetBranchName("feature/x")
	c.SetBaseBranch("develop")

	require.NoError(t, c.SubmitCreate(ctx))

	require.Len(t, engine.creates, 1)
	assert.Equal(t, CreateRequest{
		ProjectPath: "/src/api",
		Path:        "/wt/api-feature-x",
		Branch:      "feature/x",
		Base:        "develop",
	}, engine.creates[0])
	assert.Equal(t, []string{"create", "list"}, engine.calls)

	form := c.Store().Form()
	assert.False(t, form.Visible)
	assert.Empty(t, form.BranchName)
	assert.Equal(t, "develop", form.BaseBranch)
	assert.Len(t, c.Store().VisibleWorktrees(), 1)
}

func TestSubmitCreateBlankBase(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(Options{Engine: engine, GlobalRoot: "/wt"})
	c.Store().SetProject("/src/api")
	c.SetBranchName("x")
	c.SetBaseBranch("   ")

	require.NoError(t, c.SubmitCreate(context.Background()))

	require.Len(t, engine.creates, 1)
	assert.Empty(t, engine.creates[0].Base)
}

func TestSubmitCreateRequiresBranchAndRoot(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(Options{Engine: engine})
	c.Store().SetProject("/src/api")
	ctx := context.Background()

	c.SetBranchName("x")
	require.NoError(t, c.SubmitCreate(ctx))

	c.SetBranchName("")
	c.ApplyRootSelection("/wt")
	require.NoError(t, c.SubmitCreate(ctx))

	assert.Empty(t, engine.calls)
	assert.False(t, c.Runner().Loading())
}

func TestSubmitCreateFailureKeepsForm(t *testing.T) {
	engine := &fakeEngine{createErr: errBoom}
	c := NewController(Options{Engine: engine, GlobalRoot: "/wt"})
	c.Store().SetProject("/src/api")
	c.OpenCreateForm()
	c.SetBranchName("x")

	require.Error(t, c.SubmitCreate(context.Background()))

	form := c.Store().Form()
	assert.True(t, form.Visible)
	assert.Equal(t, "x", form.BranchName)
	assert.Equal(t, "boom", c.Runner().Err())
	assert.False(t, c.Runner().Loading())
}

func TestRemoveWorktreeDeclined(t *testing.T) {
	engine := &fakeEngine{}
	confirm := &recordingConfirmer{answer: false}
	c := NewController(Options{Engine: engine, Confirmer: confirm})
	c.Store().SetProject("/src/api")
	c.Runner().Report(errBoom)

	wt := Worktree{Path: "/wt/api-x", Branch: "x"}
	require.NoError(t, c.RemoveWorktree(context.Background(), wt))

	assert.Empty(t, engine.calls)
	assert.False(t, c.Runner().Loading())
	assert.Equal(t, "boom", c.Runner().Err())
	require.Len(t, confirm.messages, 1)
	assert.Contains(t, confirm.messages[0], "/wt/api-x")
	assert.Contains(t, confirm.messages[0], "x")
}

func TestRemoveWorktreeConfirmed(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(Options{
		Engine:    engine,
		Confirmer: ConfirmFunc(func(string) bool { return true }),
	})
	c.Store().SetProject("/src/api")

	wt := Worktree{Path: `C:\wt\api-x`}
	require.NoError(t, c.RemoveWorktree(context.Background(), wt))

	assert.Equal(t, []RemoveRequest{{ProjectPath: "/src/api", WorktreePath: `C:\wt\api-x`}}, engine.removes)
	assert.Equal(t, []string{"remove", "list"}, engine.calls)
}

func TestRemoveWorktreeWithoutConfirmerIsDeclined(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(Options{Engine: engine})

	require.NoError(t, c.RemoveWorktree(context.Background(), Worktree{Path: "/wt/a"}))
	assert.Empty(t, engine.calls)
}

func TestRemovalPrompt(t *testing.T) {
	assert.Contains(t, RemovalPrompt(Worktree{Path: "/wt/a", Branch: "feat"}), "branch feat")
	assert.Contains(t, RemovalPrompt(Worktree{Path: "/wt/a"}), "detached")
}

func TestRejectionAlwaysEndsLoading(t *testing.T) {
	engine := &fakeEngine{listErr: errBoom, createErr: errBoom, removeErr: errBoom, openErr: errBoom}
	c := NewController(Options{
		Engine:     engine,
		GlobalRoot: "/wt",
		Confirmer:  ConfirmFunc(func(string) bool { return true }),
	})
	ctx := context.Background()

	ops := map[string]func() error{
		"list": func() error { return c.ApplyProjectSelection(ctx, "/src/api") },
		"create": func() error {
			c.SetBranchName("x")
			return c.SubmitCreate(ctx)
		},
		"remove": func() error { return c.RemoveWorktree(ctx, Worktree{Path: "/wt/a"}) },
		"open":   func() error { return c.OpenFolder(ctx, "/wt/a") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			c.Runner().DismissError()
			require.Error(t, op())
			assert.False(t, c.Runner().Loading())
			assert.NotEmpty(t, c.Runner().Err())
		})
	}
}
