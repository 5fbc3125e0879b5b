// Package workspace holds the client-side state and lifecycle around the
// worktree engine.
//
// Store keeps the selected project, the global worktree root and the last
// fetched list. Runner wraps each engine call with a loading flag and a
// single current error, refreshing the list after successful mutations.
// Controller maps user intents (select project, select root, create,
// remove, open) onto both, with directory picking and destructive
// confirmation injected as capabilities.
//
// All types are safe for use from multiple goroutines.
package workspace
