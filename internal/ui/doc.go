// Package ui provides rendering functions for the treehouse terminal UI.
//
// Render takes RenderParams and produces the terminal output. Styles are
// package variables rebuilt from a catppuccin flavor by ApplyTheme.
// Rendering is pure and separated from state management.
package ui
