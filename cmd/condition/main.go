// Command condition explains and tests probe-driven WHERE clause scenarios.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/condition/internal/cli"
)

// Version information (set by build)
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	cmd.Version = Version
	return cmd.ExecuteContext(ctx)
}
