// Package app provides the Bubble Tea application model for treehouse.
//
// Model turns key presses into workspace.Controller intents and renders the
// controller's store through package ui. Engine calls run as tea commands off
// the UI loop; their completion messages trigger a re-read of the store.
// Directory selection uses the bubbles file picker and removal confirmation is
// a dedicated state, so the controller's non-blocking halves are used here.
package app
