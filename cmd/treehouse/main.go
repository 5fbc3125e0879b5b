package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "treehouse error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := newRootCommand(defaultDeps())
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	}
	return cmd.Execute()
}
