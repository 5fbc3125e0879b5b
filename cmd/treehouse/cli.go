package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/treehouse/internal/app"
	"github.com/henri123lemoine/treehouse/internal/config"
	"github.com/henri123lemoine/treehouse/internal/debug"
	"github.com/henri123lemoine/treehouse/internal/exec"
	"github.com/henri123lemoine/treehouse/internal/git"
	"github.com/henri123lemoine/treehouse/internal/paths"
	"github.com/henri123lemoine/treehouse/internal/ui"
	"github.com/henri123lemoine/treehouse/internal/workspace"
)

// ErrNoProject is returned when a command needs a project and none was
// given or picked.
var ErrNoProject = errors.New("no project selected: pass --project or pick a repository")

// ErrNoRoot is returned when a command needs a worktree root and none is
// known.
var ErrNoRoot = errors.New("no worktree root: pass --root or set general.worktree_root")

// backend joins the git engine and the folder opener into a workspace.Engine.
type backend struct {
	*git.Client
	*exec.Opener
}

// deps are the pieces the commands are wired with.
type deps struct {
	engine    func(cfg *config.Config) workspace.Engine
	picker    func(startDir string) workspace.Picker
	confirmer workspace.Confirmer
	runTUI    func(model app.Model) error
	stdout    io.Writer
	stderr    io.Writer
}

func defaultDeps() deps {
	return deps{
		engine: func(cfg *config.Config) workspace.Engine {
			return backend{
				Client: git.NewClient(cfg.Delete.DeleteBranch),
				Opener: exec.NewOpener(cfg.Open.Command),
			}
		},
		picker: func(startDir string) workspace.Picker {
			return huhPicker{start: startDir}
		},
		confirmer: huhConfirmer{},
		runTUI: func(model app.Model) error {
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// session holds the state shared by all commands of one invocation.
type session struct {
	deps deps

	configPath string
	project    string
	root       string
	debug      bool

	cfg *config.Config
}

func newRootCommand(d deps) *cobra.Command {
	s := &session{deps: d}

	root := &cobra.Command{
		Use:           "treehouse",
		Short:         "Manage git worktrees across repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			debug.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return s.runTUI()
		},
	}
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "Config file (default "+config.ConfigPath()+")")
	flags.StringVarP(&s.project, "project", "p", "", "Project repository path")
	flags.StringVarP(&s.root, "root", "r", "", "Directory new worktrees are created under")
	flags.BoolVar(&s.debug, "debug", false, "Write a debug log")

	root.AddCommand(
		s.newListCommand(),
		s.newCreateCommand(),
		s.newRemoveCommand(),
		s.newOpenCommand(),
		s.newPreviewCommand(),
		s.newConfigCommand(),
	)
	return root
}

// setup loads the config and applies the ambient settings.
func (s *session) setup() error {
	var err error
	if s.configPath != "" {
		s.cfg, err = config.LoadFromPath(s.configPath)
	} else {
		s.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	for _, w := range s.cfg.Validate() {
		fmt.Fprintln(s.deps.stderr, "warning:", w)
	}

	if s.debug || s.cfg.Log.Enabled {
		if err := debug.Enable(s.cfg.DebugOptions()); err != nil {
			fmt.Fprintln(s.deps.stderr, "warning: debug log disabled:", err)
		}
	}

	ui.ApplyTheme(s.cfg.UI.Theme)
	return nil
}

// normalizePath makes a user-supplied path absolute and forward-slashed.
func normalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = config.ExpandHome(p)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.ToSlash(p)
}

func (s *session) startDir() string {
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return "."
}

// controller builds a controller seeded with the configured root.
func (s *session) controller(confirmer workspace.Confirmer) *workspace.Controller {
	root := s.root
	if root == "" {
		root = s.cfg.General.WorktreeRoot
	}
	return workspace.NewController(workspace.Options{
		Engine:     s.deps.engine(s.cfg),
		Picker:     s.deps.picker(s.startDir()),
		Confirmer:  confirmer,
		GlobalRoot: normalizePath(root),
	})
}

// withProject applies --project, or asks the picker when it is missing.
func (s *session) withProject(ctx context.Context, ctrl *workspace.Controller) error {
	var err error
	if s.project != "" {
		err = ctrl.ApplyProjectSelection(ctx, normalizePath(s.project))
	} else {
		err = ctrl.SelectProject(ctx)
	}
	if err != nil {
		return err
	}
	if ctrl.Store().ProjectPath() == "" {
		return ErrNoProject
	}
	return nil
}

func (s *session) runTUI() error {
	ctrl := s.controller(nil)
	model := app.New(app.Options{
		Controller: ctrl,
		Config:     s.cfg,
		Project:    normalizePath(s.project),
		StartDir:   s.startDir(),
	})
	return s.deps.runTUI(model)
}

func (s *session) newListCommand() *cobra.Command {
	var format string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the project's worktrees under the worktree root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := s.controller(nil)
			if err := s.withProject(cmd.Context(), ctrl); err != nil {
				return err
			}
			worktrees := ctrl.Store().VisibleWorktrees()
			if all {
				worktrees = ctrl.Store().Worktrees()
			}
			return writeWorktrees(cmd.OutOrStdout(), format, worktrees)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or yaml")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include worktrees outside the worktree root")
	return cmd
}

func (s *session) newCreateCommand() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "create <branch>",
		Short: "Create a worktree for a new branch under the worktree root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := s.controller(nil)
			if err := s.withProject(ctx, ctrl); err != nil {
				return err
			}
			if base == "" {
				base = s.cfg.General.DefaultBaseBranch
			}

			ctrl.OpenCreateForm()
			ctrl.SetBranchName(args[0])
			ctrl.SetBaseBranch(base)
			if !ctrl.CanSubmit() {
				return ErrNoRoot
			}

			path := ctrl.Store().PreviewPath()
			if err := ctrl.SubmitCreate(ctx); err != nil {
				return err
			}
			if msg := ctrl.Runner().Err(); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&base, "base", "b", "", "Branch or commit the new branch starts from")
	return cmd
}

// recordingConfirmer remembers whether the last confirmation was accepted.
type recordingConfirmer struct {
	inner    workspace.Confirmer
	accepted bool
}

func (c *recordingConfirmer) Confirm(message string) bool {
	c.accepted = c.inner != nil && c.inner.Confirm(message)
	return c.accepted
}

func (s *session) newRemoveCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove a worktree and its branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			confirmer := &recordingConfirmer{inner: s.deps.confirmer}
			ctrl := s.controller(confirmer)
			if err := s.withProject(ctx, ctrl); err != nil {
				return err
			}

			wt, ok := findWorktree(ctrl.Store().Worktrees(), normalizePath(args[0]))
			if !ok {
				return fmt.Errorf("no worktree at '%s'", args[0])
			}

			if yes {
				if err := ctrl.RemoveConfirmed(ctx, wt); err != nil {
					return err
				}
			} else {
				if err := ctrl.RemoveWorktree(ctx, wt); err != nil {
					return err
				}
				if !confirmer.accepted {
					fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
					return nil
				}
			}
			if msg := ctrl.Runner().Err(); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "removed", wt.Path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// findWorktree looks up path among list. Paths match exactly after
// cleaning and separator folding; case is significant.
func findWorktree(list []workspace.Worktree, path string) (workspace.Worktree, bool) {
	want := cleanPath(path)
	for _, wt := range list {
		if cleanPath(wt.Path) == want {
			return wt, true
		}
	}
	return workspace.Worktree{}, false
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
}

func (s *session) newOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Open a folder with the configured opener",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.controller(nil).OpenFolder(cmd.Context(), normalizePath(args[0]))
		},
	}
}

func (s *session) newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <branch>",
		Short: "Print the path a worktree for branch would be created at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := s.controller(nil)
			if s.project == "" {
				return ErrNoProject
			}
			// Only the derived values are needed; no engine call.
			ctrl.Store().SetProject(normalizePath(s.project))
			if ctrl.Store().GlobalRoot() == "" {
				ctrl.ApplyRootSelection(paths.DefaultRoot(ctrl.Store().ProjectPath()))
			}
			ctrl.SetBranchName(args[0])

			preview := ctrl.Store().PreviewPath()
			if preview == "" {
				return ErrNoRoot
			}
			fmt.Fprintln(cmd.OutOrStdout(), preview)
			return nil
		},
	}
}
