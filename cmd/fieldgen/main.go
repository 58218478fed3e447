// Command fieldgen generates field-level change tracking code.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fieldobs/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
