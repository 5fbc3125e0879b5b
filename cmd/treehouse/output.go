package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/henri123lemoine/treehouse/internal/workspace"
)

// worktreeList is the document written by list for json and yaml.
type worktreeList struct {
	Worktrees []workspace.Worktree `json:"worktrees" yaml:"worktrees"`
}

func writeWorktrees(w io.Writer, format string, list []workspace.Worktree) error {
	if list == nil {
		list = []workspace.Worktree{}
	}
	switch format {
	case "", "text":
		return writeText(w, list)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(worktreeList{Worktrees: list})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(worktreeList{Worktrees: list}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format '%s' (want text, json, or yaml)", format)
	}
}

func writeText(w io.Writer, list []workspace.Worktree) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No worktrees.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, wt := range list {
		branch := wt.Branch
		if wt.IsDetached() {
			branch = "(detached)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", branch, wt.ShortHash(), wt.Path)
	}
	return tw.Flush()
}
