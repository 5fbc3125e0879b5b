// Package exec opens worktree folders with external programs.
package exec

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/henri123lemoine/treehouse/internal/debug"
	"github.com/henri123lemoine/treehouse/internal/paths"
)

// Opener implements the open-folder operation.
type Opener struct {
	// Command overrides the platform opener. Template variables: {path},
	// {name}. Variables are shell-quoted.
	Command string

	goos string
}

// NewOpener returns an Opener using command, or the platform opener when
// command is empty.
func NewOpener(command string) *Opener {
	return &Opener{Command: command, goos: runtime.GOOS}
}

// OpenFolder starts the opener for path without waiting for it to exit.
func (o *Opener) OpenFolder(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args := o.command(path)
	debug.Log("opening %q with %s %v", path, name, args)

	// Not tied to ctx: the opened program should outlive the request.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open folder '%s': %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// command returns the program and arguments that open path.
func (o *Opener) command(path string) (string, []string) {
	if o.Command != "" {
		if o.goos == "windows" {
			return "cmd", []string{"/C", expandTemplate(o.Command, windowsPath(path), cmdQuote)}
		}
		return "sh", []string{"-c", expandTemplate(o.Command, path, shellQuote)}
	}

	switch o.goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "explorer", []string{windowsPath(path)}
	default:
		return "xdg-open", []string{path}
	}
}

// expandTemplate expands template variables in the command, quoting each
// value with quote.
func expandTemplate(command, path string, quote func(string) string) string {
	result := command

	// {path} - Full path to the folder
	result = strings.ReplaceAll(result, "{path}", quote(path))

	// {name} - Last path segment
	result = strings.ReplaceAll(result, "{name}", quote(paths.ProjectName(path)))

	return result
}

// shellQuote quotes s for sh when it contains anything beyond a safe set.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("/._-+:@%=,", r)
}

func windowsPath(path string) string {
	return strings.ReplaceAll(path, "/", `\`)
}

// cmdQuote double-quotes s for cmd.exe when it contains a space or one of
// cmd's metacharacters. Windows paths cannot contain '"'.
func cmdQuote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t&|<>()^%!;,=") {
		return s
	}
	return `"` + s + `"`
}
