package app

// Message types for the bubbletea app. Worktree data lives in the
// controller's store; these messages only report completion.

// ProjectSelectedMsg is sent when a project was applied and listed.
type ProjectSelectedMsg struct {
	Path string
	Err  error
}

// WorktreesLoadedMsg is sent when a refresh completes.
type WorktreesLoadedMsg struct {
	Err error
}

// BranchesLoadedMsg is sent when base branch suggestions are loaded.
type BranchesLoadedMsg struct {
	Project  string
	Branches []string
	Err      error
}

// WorktreeCreatedMsg is sent when a create (and its refresh) completes.
type WorktreeCreatedMsg struct {
	Branch string
	Err    error
}

// WorktreeRemovedMsg is sent when a removal (and its refresh) completes.
type WorktreeRemovedMsg struct {
	Path string
	Err  error
}

// FolderOpenedMsg is sent when the folder opener was started.
type FolderOpenedMsg struct {
	Path string
	Err  error
}
