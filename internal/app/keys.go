package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/henri123lemoine/treehouse/internal/config"
	"github.com/henri123lemoine/treehouse/internal/ui"
)

// KeyMap defines all keybindings.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Actions
	Open    key.Binding
	New     key.Binding
	Delete  key.Binding
	Project key.Binding
	Root    key.Binding
	Refresh key.Binding
	Filter  key.Binding
	Dismiss key.Binding

	// Forms
	NextField  key.Binding
	PickRoot   key.Binding
	SelectDir  key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	ConfirmYes key.Binding
	ConfirmNo  key.Binding

	// General
	Quit key.Binding
	Help key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open folder"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new worktree"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove worktree"),
		),
		Project: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "select project"),
		),
		Root: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "select worktree root"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss error"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch field"),
		),
		PickRoot: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "select worktree root"),
		),
		SelectDir: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "select current directory"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ConfirmYes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		ConfirmNo: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// KeyMapFromConfig creates a KeyMap from config settings.
func KeyMapFromConfig(cfg *config.KeysConfig) KeyMap {
	km := DefaultKeyMap()
	if cfg == nil {
		return km
	}

	override := func(b *key.Binding, keys, desc string) {
		if keys == "" {
			return
		}
		*b = key.NewBinding(
			key.WithKeys(parseKeys(keys)...),
			key.WithHelp(keys, desc),
		)
	}

	override(&km.Up, cfg.Up, "up")
	override(&km.Down, cfg.Down, "down")
	override(&km.Home, cfg.Home, "first")
	override(&km.End, cfg.End, "last")
	override(&km.Open, cfg.Open, "open folder")
	override(&km.New, cfg.New, "new worktree")
	override(&km.Delete, cfg.Delete, "remove worktree")
	override(&km.Project, cfg.Project, "select project")
	override(&km.Root, cfg.Root, "select worktree root")
	override(&km.Refresh, cfg.Refresh, "refresh")
	override(&km.Filter, cfg.Filter, "filter")
	override(&km.Dismiss, cfg.Dismiss, "dismiss error")
	override(&km.Help, cfg.Help, "help")
	override(&km.Quit, cfg.Quit, "quit")

	return km
}

// HelpSections returns the bindings shown on the help screen.
func (k KeyMap) HelpSections() []ui.HelpSection {
	section := func(title string, bindings ...key.Binding) ui.HelpSection {
		s := ui.HelpSection{Title: title}
		for _, b := range bindings {
			h := b.Help()
			s.Bindings = append(s.Bindings, ui.HelpBinding{Keys: h.Key, Desc: h.Desc})
		}
		return s
	}

	return []ui.HelpSection{
		section("Navigation", k.Up, k.Down, k.Home, k.End),
		section("Worktrees", k.Open, k.New, k.Delete, k.Refresh, k.Filter),
		section("Session", k.Project, k.Root, k.Dismiss, k.Help, k.Quit),
		section("Create form", k.NextField, k.PickRoot, k.Confirm, k.Cancel),
		section("Directory picker", k.SelectDir, k.Cancel),
	}
}

// parseKeys parses a comma-separated list of keys.
func parseKeys(s string) []string {
	parts := strings.Split(s, ",")
	var keys []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}
