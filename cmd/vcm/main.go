package main

import (
	"io"
	"os"

	"github.com/morozRed/vcm/internal/cli"
)

var version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	rootCmd := cli.NewRootCommand(version)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stderr)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	cli.PrintError(stderr, err)
	return cli.ExitCode(err)
}
