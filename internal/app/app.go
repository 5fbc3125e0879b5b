package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/henri123lemoine/treehouse/internal/config"
	"github.com/henri123lemoine/treehouse/internal/debug"
	"github.com/henri123lemoine/treehouse/internal/git"
	"github.com/henri123lemoine/treehouse/internal/ui"
	"github.com/henri123lemoine/treehouse/internal/workspace"
)

// State represents the current UI state.
type State int

const (
	StateList State = iota
	StateCreate
	StateDelete
	StatePickProject
	StatePickRoot
	StateFilter
	StateHelp
)

var errNoProject = errors.New("no project selected, press 'p' to choose one")

// Options configures a Model.
type Options struct {
	Controller *workspace.Controller
	Config     *config.Config

	// Project is applied on start. Empty opens the project picker.
	Project string

	// StartDir is where directory pickers start when nothing is selected.
	StartDir string

	// ListBranches supplies base branch suggestions. Defaults to git.ListBranches.
	ListBranches func(projectPath string) ([]string, error)
}

// Model is the main application model.
type Model struct {
	ctx          context.Context
	ctrl         *workspace.Controller
	store        *workspace.Store
	runner       *workspace.Runner
	config       *config.Config
	listBranches func(string) ([]string, error)
	startDir     string
	project      string

	// Filtered view of the store's visible worktrees
	shown      []workspace.Worktree
	cursor     int
	viewOffset int

	state      State
	pickReturn State

	// Create flow
	branchInput textinput.Model
	baseInput   textinput.Model
	focusBase   bool

	// Delete flow
	deleteTarget *workspace.Worktree

	// Directory picker
	picker      filepicker.Model
	pickerTitle string

	filterInput textinput.Model
	spinner     spinner.Model

	width  int
	height int
	keys   KeyMap

	shouldQuit bool
}

// New creates a new Model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	listBranches := opts.ListBranches
	if listBranches == nil {
		listBranches = git.ListBranches
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}

	branchInput := textinput.New()
	branchInput.Placeholder = "feature/my-branch"
	branchInput.CharLimit = 200

	baseInput := textinput.New()
	baseInput.Placeholder = "HEAD"
	baseInput.CharLimit = 200
	baseInput.ShowSuggestions = true
	baseInput.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))

	filterInput := textinput.New()
	filterInput.Placeholder = "filter..."
	filterInput.CharLimit = 50

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = lipgloss.NewStyle().Foreground(ui.ColorHighlight)

	m := Model{
		ctx:          context.Background(),
		ctrl:         opts.Controller,
		store:        opts.Controller.Store(),
		runner:       opts.Controller.Runner(),
		config:       cfg,
		listBranches: listBranches,
		startDir:     startDir,
		project:      opts.Project,
		branchInput:  branchInput,
		baseInput:    baseInput,
		filterInput:  filterInput,
		spinner:      sp,
		keys:         KeyMapFromConfig(&cfg.Keys),
		state:        StateList,
	}

	if m.project == "" && m.store.ProjectPath() == "" {
		m.openPicker(StatePickProject, StateList)
	}
	m.syncList()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	switch {
	case m.project != "":
		cmds = append(cmds, m.applyProject(m.project))
	case m.isPicking():
		cmds = append(cmds, m.picker.Init())
	case m.store.ProjectPath() != "":
		cmds = append(cmds, m.refresh(), m.loadBranches(m.store.ProjectPath()))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetHeight(m.pickerHeight())
		m.clampView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.shouldQuit = true
			return m, tea.Quit
		}
		return m.handleKeyPress(msg)

	case ProjectSelectedMsg:
		m.cursor = 0
		m.viewOffset = 0
		m.syncList()
		return m, m.loadBranches(msg.Path)

	case WorktreesLoadedMsg:
		m.syncList()
		return m, nil

	case BranchesLoadedMsg:
		if msg.Err != nil {
			// Suggestions are optional
			debug.Log("branch suggestions unavailable: %v", msg.Err)
			return m, nil
		}
		if msg.Project == m.store.ProjectPath() {
			m.baseInput.SetSuggestions(msg.Branches)
		}
		return m, nil

	case WorktreeCreatedMsg:
		m.syncList()
		if msg.Err != nil {
			// Keep the form open so the input can be corrected
			return m, nil
		}
		if m.state == StateCreate {
			m.state = StateList
		}
		m.branchInput.Reset()
		m.branchInput.Blur()
		m.baseInput.Blur()
		m.selectBranch(msg.Branch)
		return m, nil

	case WorktreeRemovedMsg:
		m.syncList()
		return m, nil

	case FolderOpenedMsg:
		return m, nil
	}

	// Directory reads and other internal picker messages
	if m.isPicking() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress handles key presses based on current state.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateList:
		return m.handleListKeys(msg)
	case StateCreate:
		return m.handleCreateKeys(msg)
	case StateDelete:
		return m.handleDeleteKeys(msg)
	case StatePickProject, StatePickRoot:
		return m.handlePickerKeys(msg)
	case StateFilter:
		return m.handleFilterKeys(msg)
	case StateHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

// handleListKeys handles key presses in the list view.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shouldQuit = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampView()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.shown)-1 {
			m.cursor++
		}
		m.clampView()
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clampView()
	case key.Matches(msg, m.keys.End):
		m.cursor = max(0, len(m.shown)-1)
		m.clampView()
	case key.Matches(msg, m.keys.Open):
		if wt, ok := m.selected(); ok {
			return m, m.openFolder(wt.Path)
		}
	case key.Matches(msg, m.keys.New):
		if m.store.ProjectPath() == "" {
			m.runner.Report(errNoProject)
			return m, nil
		}
		return m, m.openCreateForm()
	case key.Matches(msg, m.keys.Delete):
		if m.runner.Loading() {
			return m, nil
		}
		if wt, ok := m.selected(); ok {
			m.deleteTarget = &wt
			m.state = StateDelete
		}
	case key.Matches(msg, m.keys.Project):
		return m, m.openPicker(StatePickProject, StateList)
	case key.Matches(msg, m.keys.Root):
		return m, m.openPicker(StatePickRoot, StateList)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Filter):
		m.state = StateFilter
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Dismiss):
		m.runner.DismissError()
	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp
	}
	return m, nil
}

// handleHelpKeys handles key presses in the help view.
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	m.state = StateList
	return m, nil
}

// openCreateForm shows the create form, prefilled from the store.
func (m *Model) openCreateForm() tea.Cmd {
	m.ctrl.OpenCreateForm()
	form := m.store.Form()
	if form.BaseBranch == "" && m.config.General.DefaultBaseBranch != "" {
		m.ctrl.SetBaseBranch(m.config.General.DefaultBaseBranch)
		form = m.store.Form()
	}
	m.branchInput.SetValue(form.BranchName)
	m.baseInput.SetValue(form.BaseBranch)

	m.state = StateCreate
	m.focusBase = false
	m.baseInput.Blur()
	m.branchInput.Focus()
	return textinput.Blink
}

// handleCreateKeys handles key presses in the create form.
func (m Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelCreateForm()
		m.branchInput.Reset()
		m.baseInput.Reset()
		m.branchInput.Blur()
		m.baseInput.Blur()
		m.state = StateList
		return m, nil
	case key.Matches(msg, m.keys.PickRoot):
		return m, m.openPicker(StatePickRoot, StateCreate)
	case key.Matches(msg, m.keys.NextField):
		m.focusBase = !m.focusBase
		if m.focusBase {
			m.branchInput.Blur()
			return m, m.baseInput.Focus()
		}
		m.baseInput.Blur()
		return m, m.branchInput.Focus()
	case key.Matches(msg, m.keys.Confirm):
		if !m.ctrl.CanSubmit() || m.runner.Loading() {
			return m, nil
		}
		return m, m.submitCreate(m.store.Form().BranchName)
	}

	var cmd tea.Cmd
	if m.focusBase {
		m.baseInput, cmd = m.baseInput.Update(msg)
		m.ctrl.SetBaseBranch(m.baseInput.Value())
	} else {
		m.branchInput, cmd = m.branchInput.Update(msg)
		m.ctrl.SetBranchName(m.branchInput.Value())
	}
	return m, cmd
}

// handleDeleteKeys handles key presses in the removal confirmation.
func (m Model) handleDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deleteTarget == nil {
		m.state = StateList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ConfirmYes):
		wt := *m.deleteTarget
		m.deleteTarget = nil
		m.state = StateList
		return m, m.removeWorktree(wt)
	case key.Matches(msg, m.keys.ConfirmNo):
		m.deleteTarget = nil
		m.state = StateList
	}
	return m, nil
}

// openPicker switches to a directory picker. ret is the state restored
// when the picker closes.
func (m *Model) openPicker(state, ret State) tea.Cmd {
	start := m.startDir
	switch state {
	case StatePickProject:
		m.pickerTitle = workspace.SelectProjectTitle
		if p := m.store.ProjectPath(); p != "" {
			start = filepath.Dir(filepath.FromSlash(p))
		}
	case StatePickRoot:
		m.pickerTitle = workspace.SelectRootTitle
		if r := m.store.GlobalRoot(); r != "" {
			start = filepath.FromSlash(r)
		}
	}

	fp := filepicker.New()
	fp.CurrentDirectory = start
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.ShowPermissions = false
	fp.ShowSize = false
	fp.AutoHeight = false
	fp.Cursor = ui.SymbolCursor
	fp.KeyMap.Back = key.NewBinding(key.WithKeys("h", "backspace", "left"), key.WithHelp("h", "back"))
	fp.Styles.Cursor = ui.SelectedStyle
	fp.Styles.Selected = ui.SelectedStyle
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	fp.Styles.File = ui.DisabledStyle
	fp.Styles.DisabledFile = ui.DisabledStyle
	fp.Styles.EmptyDirectory = ui.PathStyle.PaddingLeft(2).SetString("No directories here.")
	fp.SetHeight(m.pickerHeight())

	m.picker = fp
	m.state = state
	m.pickReturn = ret
	return fp.Init()
}

// handlePickerKeys handles key presses in the directory picker.
func (m Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = m.pickReturn
		return m, nil
	case key.Matches(msg, m.keys.SelectDir):
		return m.choose(m.picker.CurrentDirectory)
	}

	m.picker.Path = ""
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if m.picker.Path != "" {
		return m.choose(m.picker.Path)
	}
	return m, cmd
}

// choose applies a picked directory and closes the picker.
func (m Model) choose(dir string) (tea.Model, tea.Cmd) {
	path := filepath.ToSlash(filepath.Clean(dir))
	picked := m.state
	m.state = m.pickReturn

	if picked == StatePickRoot {
		m.ctrl.ApplyRootSelection(path)
		m.syncList()
		return m, nil
	}

	m.filterInput.Reset()
	m.baseInput.SetSuggestions(nil)
	return m, m.applyProject(path)
}

// handleFilterKeys handles key presses in filter mode.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.filterInput.Reset()
		m.filterInput.Blur()
		m.syncList()
		return m, nil
	case tea.KeyEnter:
		m.state = StateList
		m.filterInput.Blur()
		return m, nil
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampView()
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.shown)-1 {
			m.cursor++
		}
		m.clampView()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.syncList()
	return m, cmd
}

// worktreeSource implements fuzzy.Source for worktree fuzzy matching.
type worktreeSource []workspace.Worktree

func (w worktreeSource) String(i int) string {
	// Match against both branch name and path
	return w[i].Branch + " " + w[i].Path
}

func (w worktreeSource) Len() int {
	return len(w)
}

// syncList rebuilds the shown list from the store's visible worktrees and
// the filter. Matches keep the store's order.
func (m *Model) syncList() {
	visible := m.store.VisibleWorktrees()

	filter := m.filterInput.Value()
	if filter == "" {
		m.shown = visible
	} else {
		matches := fuzzy.FindFrom(filter, worktreeSource(visible))
		idx := make([]int, 0, len(matches))
		for _, match := range matches {
			idx = append(idx, match.Index)
		}
		slices.Sort(idx)

		m.shown = make([]workspace.Worktree, 0, len(idx))
		for _, i := range idx {
			m.shown = append(m.shown, visible[i])
		}
	}

	m.clampView()
}

// clampView keeps the cursor in bounds and on screen.
func (m *Model) clampView() {
	if m.cursor >= len(m.shown) {
		m.cursor = len(m.shown) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visible := m.visibleCount()
	if m.cursor < m.viewOffset {
		m.viewOffset = m.cursor
	}
	if m.cursor >= m.viewOffset+visible {
		m.viewOffset = m.cursor - visible + 1
	}
	if m.viewOffset < 0 {
		m.viewOffset = 0
	}
}

// visibleCount returns how many two-line entries fit on screen.
func (m Model) visibleCount() int {
	if m.height == 0 {
		return 10
	}
	// Header, root line, dividers, help and box chrome take about 12 lines
	return max(1, (m.height-12)/2)
}

func (m Model) pickerHeight() int {
	if m.height == 0 {
		return 10
	}
	return max(3, m.height-12)
}

func (m Model) selected() (workspace.Worktree, bool) {
	if m.cursor < 0 || m.cursor >= len(m.shown) {
		return workspace.Worktree{}, false
	}
	return m.shown[m.cursor], true
}

// selectBranch moves the cursor to the worktree on branch, if shown.
func (m *Model) selectBranch(branch string) {
	for i, wt := range m.shown {
		if wt.Branch == branch {
			m.cursor = i
			m.clampView()
			return
		}
	}
}

func (m Model) isPicking() bool {
	return m.state == StatePickProject || m.state == StatePickRoot
}

// View renders the UI.
func (m Model) View() string {
	form := m.store.Form()
	p := ui.RenderParams{
		State:        int(m.state),
		ProjectPath:  m.store.ProjectPath(),
		ProjectName:  m.store.ProjectName(),
		GlobalRoot:   m.store.GlobalRoot(),
		Worktrees:    m.shown,
		TotalCount:   len(m.store.Worktrees()),
		Cursor:       m.cursor,
		ViewOffset:   m.viewOffset,
		VisibleCount: m.visibleCount(),
		Width:        m.width,
		Height:       m.height,
		Loading:      m.runner.Loading(),
		Err:          m.runner.Err(),
		SpinnerFrame: m.spinner.View(),
		FilterInput:  m.filterInput.View(),
		BranchInput:  m.branchInput.View(),
		BaseInput:    m.baseInput.View(),
		PreviewPath:  m.store.PreviewPath(),
		CanSubmit:    form.BranchName != "" && m.store.GlobalRoot() != "",
		HelpSections: m.keys.HelpSections(),
	}
	if m.isPicking() {
		p.PickerTitle = m.pickerTitle
		p.PickerDir = m.picker.CurrentDirectory
		p.PickerView = m.picker.View()
	}
	if m.deleteTarget != nil {
		p.DeletePrompt = workspace.RemovalPrompt(*m.deleteTarget)
	}
	return ui.Render(p)
}

// ShouldQuit returns true if the app should quit.
func (m Model) ShouldQuit() bool {
	return m.shouldQuit
}

// Commands. Each runs a controller operation off the UI loop; results are
// read back from the store.

func (m Model) applyProject(path string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		err := ctrl.ApplyProjectSelection(ctx, path)
		return ProjectSelectedMsg{Path: path, Err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return WorktreesLoadedMsg{Err: ctrl.Refresh(ctx)}
	}
}

func (m Model) loadBranches(project string) tea.Cmd {
	list := m.listBranches
	return func() tea.Msg {
		branches, err := list(project)
		return BranchesLoadedMsg{Project: project, Branches: branches, Err: err}
	}
}

func (m Model) submitCreate(branch string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return WorktreeCreatedMsg{Branch: branch, Err: ctrl.SubmitCreate(ctx)}
	}
}

func (m Model) removeWorktree(wt workspace.Worktree) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return WorktreeRemovedMsg{Path: wt.Path, Err: ctrl.RemoveConfirmed(ctx, wt)}
	}
}

func (m Model) openFolder(path string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return FolderOpenedMsg{Path: path, Err: ctrl.OpenFolder(ctx, path)}
	}
}
