// Command sqltranslate translates method-call expressions into SQL.
package main

import (
	"os"

	"github.com/nlstn/go-sqltranslate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
