// Command textcore inspects and edits text files through the textcore
// document engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(newApp())
	root.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
