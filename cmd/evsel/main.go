// Command evsel runs the event selection over collision datasets.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/evsel/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
