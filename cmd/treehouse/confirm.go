package main

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/treehouse/internal/ui"
)

const (
	confirmFieldKey = "confirm_result"
	pickerFieldKey  = "picked_dir"
	pickerHeight    = 14
)

func treehouseHuhTheme() *huh.Theme {
	t := *huh.ThemeCatppuccin()
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ui.ColorDanger).Foreground(lipgloss.Color("#ffffff"))
	t.Focused.Next = t.Focused.FocusedButton
	return &t
}

func newConfirmForm(title string, result *bool) *huh.Form {
	confirm := huh.NewConfirm().
		Key(confirmFieldKey).
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(result)

	return huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(treehouseHuhTheme()).
		WithShowHelp(false)
}

// huhConfirmer asks for confirmation on the terminal. Any form error counts
// as declined.
type huhConfirmer struct{}

func (huhConfirmer) Confirm(message string) bool {
	var ok bool
	if err := newConfirmForm(message, &ok).Run(); err != nil {
		return false
	}
	return ok
}

// huhPicker picks a directory on the terminal, starting at start.
type huhPicker struct {
	start string
}

func newPickerForm(title, start string, result *string) *huh.Form {
	picker := huh.NewFilePicker().
		Key(pickerFieldKey).
		Title(title).
		CurrentDirectory(start).
		DirAllowed(true).
		FileAllowed(false).
		Picking(true).
		Height(pickerHeight).
		Value(result)

	return huh.NewForm(huh.NewGroup(picker)).
		WithTheme(treehouseHuhTheme())
}

// PickDirectory returns "" with no error when the user aborts.
func (p huhPicker) PickDirectory(ctx context.Context, title string) (string, error) {
	var dir string
	err := newPickerForm(title, p.start, &dir).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", nil
	}
	return filepath.ToSlash(dir), nil
}
