// Command relquery is the CLI front-end for the relational query
// compiler: it loads a CUE table catalog, compiles a QueryRep to SQL
// (or infers its output schema), and prints the result.
package main

import (
	"fmt"
	"os"

	"github.com/relq/relq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
