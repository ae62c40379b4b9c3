// Command cfgfuzz writes every type-aware mutation of a JSON configuration
// as numbered files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kostassolo/cfgfuzz/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		// commands print their own errors; usage errors arrive unprinted
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Message == "usage" {
			fmt.Fprintln(os.Stderr, "cfgfuzz:", err)
		}
	}
	return cli.GetExitCode(err)
}
