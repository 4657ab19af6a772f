// cmd/mungefs-ci/main.go
package main

import (
	"os"

	"github.com/irods/mungefs/ci"
	"github.com/irods/mungefs/ci/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.ReportError(os.Stdout, os.Stderr, err)
		os.Exit(ci.ExitCode(err))
	}
}
