package main

import (
	"os"

	"github.com/example/guardgen/internal/cli"
	"github.com/example/guardgen/internal/wire"
)

func main() {
	rootCmd := cli.NewRootCmd()

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		os.Exit(cli.ReportError(os.Stderr, err))
	}
}
