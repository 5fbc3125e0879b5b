package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/henri123lemoine/treehouse/internal/workspace"
)

// State constants (matching app.State)
const (
	StateList = iota
	StateCreate
	StateDelete
	StatePickProject
	StatePickRoot
	StateFilter
	StateHelp
)

// HelpBinding represents a keybinding for help display.
type HelpBinding struct {
	Keys string
	Desc string
}

// HelpSection represents a section of help bindings.
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// RenderParams contains all parameters needed for rendering.
type RenderParams struct {
	State        int
	ProjectPath  string
	ProjectName  string
	GlobalRoot   string
	Worktrees    []workspace.Worktree
	TotalCount   int
	Cursor       int
	ViewOffset   int
	VisibleCount int
	Width        int
	Height       int
	Loading      bool
	Err          string
	SpinnerFrame string

	FilterInput string

	BranchInput string
	BaseInput   string
	PreviewPath string
	CanSubmit   bool

	DeletePrompt string

	PickerTitle string
	PickerDir   string
	PickerView  string

	HelpSections []HelpSection
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 30

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 8

// Render renders the full UI.
func Render(p RenderParams) string {
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	switch p.State {
	case StateCreate:
		return renderCreate(p)
	case StateDelete:
		return renderDelete(p)
	case StatePickProject, StatePickRoot:
		return renderPicker(p)
	case StateFilter:
		return renderFilter(p)
	case StateHelp:
		return renderHelp(p)
	default:
		return renderList(p)
	}
}

// renderList renders the main worktree list.
func renderList(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 4 // box borders and padding

	b.WriteString(renderHeader(p, contentWidth))
	b.WriteString(divider(contentWidth) + "\n")
	b.WriteString(renderError(p.Err, contentWidth))

	if p.Loading {
		b.WriteString("\n" + p.SpinnerFrame + " Working...\n")
	}

	switch {
	case p.ProjectPath == "":
		b.WriteString("\n" + PathStyle.Render("No project selected. Press 'p' to choose a repository.") + "\n")
	case len(p.Worktrees) == 0 && !p.Loading:
		msg := "No worktrees under the current root."
		if p.TotalCount == 0 {
			msg = "No worktrees found. Press 'n' to create one."
		}
		b.WriteString("\n" + PathStyle.Render(msg) + "\n")
	default:
		b.WriteString(renderWorktreeRange(p, contentWidth))
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	helpText := compactHelp(
		"enter open • n new • d remove • p project • R root • r refresh • / filter • ? help • q quit",
		"enter•n•d•p•R•r•/•?•q",
		p.Width,
	)
	b.WriteString(HelpStyle.Render(helpText))

	return wrapInBox(b.String(), p.Width, p.Height)
}

// renderHeader renders the project name and the active root.
func renderHeader(p RenderParams, width int) string {
	var b strings.Builder

	name := p.ProjectName
	if p.ProjectPath == "" {
		name = "no project"
	}
	b.WriteString(TitleStyle.Render("TREEHOUSE") + "  " + HeaderStyle.Render(name))
	if p.TotalCount > 0 && len(p.Worktrees) != p.TotalCount {
		b.WriteString(PathStyle.Render(fmt.Sprintf("  %d/%d shown", len(p.Worktrees), p.TotalCount)))
	}
	b.WriteString("\n")

	root := p.GlobalRoot
	if root == "" {
		root = "(not set)"
	}
	b.WriteString(LabelStyle.Render("root ") + PathStyle.Render(ansi.Truncate(root, max(0, width-5), "…")) + "\n")

	return b.String()
}

// renderError renders the current error with its dismiss hint.
func renderError(msg string, width int) string {
	if msg == "" {
		return ""
	}
	hint := "  x dismiss"
	line := ansi.Truncate(SymbolError+" "+msg, max(0, width-len(hint)), "…")
	return ErrorStyle.Render(line) + HelpStyle.Render(hint) + "\n"
}

// renderWorktreeRange renders the visible slice of the list with scroll
// indicators.
func renderWorktreeRange(p RenderParams, width int) string {
	var b strings.Builder

	startIdx := p.ViewOffset
	endIdx := p.ViewOffset + p.VisibleCount
	if endIdx > len(p.Worktrees) {
		endIdx = len(p.Worktrees)
	}
	if startIdx >= len(p.Worktrees) {
		startIdx = 0
	}

	if startIdx > 0 {
		b.WriteString(PathStyle.Render(fmt.Sprintf("  ↑ %d more above", startIdx)) + "\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(renderWorktreeEntry(p.Worktrees[i], i == p.Cursor, width))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(p.Worktrees) {
		b.WriteString("\n" + PathStyle.Render(fmt.Sprintf("  ↓ %d more below", len(p.Worktrees)-endIdx)))
	}

	return b.String()
}

// renderWorktreeEntry renders a single worktree.
func renderWorktreeEntry(wt workspace.Worktree, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = SelectedStyle.Render(SymbolCursor + " ")
	}

	var branch string
	switch {
	case wt.IsDetached():
		branch = DetachedStyle.Render("(detached)")
	case selected:
		branch = SelectedStyle.Render(wt.Branch)
	default:
		branch = BranchStyle.Render(wt.Branch)
	}

	line1 := cursor + branch
	if hash := wt.ShortHash(); hash != "" {
		line1 += " " + HashStyle.Render(hash)
	}

	indent := "    "
	path := ansi.Truncate(wt.Path, max(0, width-len(indent)), "…")
	line2 := indent + PathStyle.Render(path)

	return line1 + "\n" + line2
}

// renderCreate renders the create worktree form.
func renderCreate(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(HeaderStyle.Render("NEW WORKTREE") + "  " + PathStyle.Render(p.ProjectName) + "\n")
	b.WriteString(divider(contentWidth) + "\n")
	b.WriteString(renderError(p.Err, contentWidth))
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render("Branch name") + "\n")
	b.WriteString(p.BranchInput + "\n\n")
	b.WriteString(LabelStyle.Render("Base branch (optional)") + "\n")
	b.WriteString(p.BaseInput + "\n\n")

	b.WriteString(LabelStyle.Render("Path") + "\n")
	switch {
	case p.GlobalRoot == "":
		b.WriteString(DangerStyle.Render("No worktree root set. Press ctrl+r to choose one.") + "\n")
	case p.PreviewPath == "":
		b.WriteString(DisabledStyle.Render("enter a branch name") + "\n")
	default:
		b.WriteString(PathStyle.Render(ansi.Truncate(p.PreviewPath, contentWidth, "…")) + "\n")
	}

	if p.Loading {
		b.WriteString("\n" + p.SpinnerFrame + " Creating worktree...\n")
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	submit := "enter create"
	if !p.CanSubmit || p.Loading {
		submit = DisabledStyle.Render(submit)
	}
	b.WriteString(submit + HelpStyle.Render(" • tab switch field • ctrl+r root • esc cancel"))

	return wrapInBox(b.String(), p.Width, p.Height)
}

// renderDelete renders the removal confirmation.
func renderDelete(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(HeaderStyle.Render("REMOVE WORKTREE") + "\n")
	b.WriteString(divider(contentWidth) + "\n\n")

	b.WriteString(DangerStyle.Width(contentWidth).Render(p.DeletePrompt) + "\n")

	b.WriteString("\n" + divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render("y confirm • n cancel"))

	return wrapInBox(b.String(), p.Width, p.Height)
}

// renderPicker renders the directory picker.
func renderPicker(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(HeaderStyle.Render(strings.ToUpper(p.PickerTitle)) + "\n")
	b.WriteString(PathStyle.Render(ansi.Truncate(p.PickerDir, contentWidth, "…")) + "\n")
	b.WriteString(divider(contentWidth) + "\n")
	b.WriteString(p.PickerView + "\n")

	b.WriteString(divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render(compactHelp(
		"→/l enter dir • ←/h up • s select current • enter select • esc cancel",
		"→ ← s enter esc",
		p.Width,
	)))

	return wrapInBox(b.String(), p.Width, p.Height)
}

// renderFilter renders the filter mode.
func renderFilter(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(HeaderStyle.Render("FILTER") + "  ")
	b.WriteString(p.FilterInput + "\n")
	b.WriteString(divider(contentWidth) + "\n")

	if len(p.Worktrees) == 0 {
		b.WriteString("\n" + PathStyle.Render("No matches found.") + "\n")
	} else {
		b.WriteString(renderWorktreeRange(p, contentWidth))
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render("enter select • esc clear"))

	return wrapInBox(b.String(), p.Width, p.Height)
}

// renderHelp renders the help screen.
func renderHelp(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 4

	b.WriteString(HeaderStyle.Render("HELP") + "\n")
	b.WriteString(divider(contentWidth) + "\n\n")

	for i, section := range p.HelpSections {
		b.WriteString(BranchStyle.Render(section.Title) + "\n")
		b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, 40)) + "\n")
		for _, binding := range section.Bindings {
			// Pad keys to 10 chars for alignment
			keys := binding.Keys
			if len(keys) < 10 {
				keys = keys + strings.Repeat(" ", 10-len(keys))
			}
			b.WriteString(PathStyle.Render("  "+keys) + " " + binding.Desc + "\n")
		}
		if i < len(p.HelpSections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))

	return wrapInBox(b.String(), p.Width, p.Height)
}

func divider(width int) string {
	return DividerStyle.Render(strings.Repeat(SymbolDivider, max(0, width)))
}

// wrapInBox wraps content in a box.
func wrapInBox(content string, width, height int) string {
	boxWidth := width - 2
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}

	return BoxStyle.Width(boxWidth).Render(content)
}

// compactHelp returns a shortened help string for small terminals.
func compactHelp(full, compact string, width int) string {
	if width >= 80 {
		return full
	}
	return compact
}
