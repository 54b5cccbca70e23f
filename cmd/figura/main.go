package main

import (
	"io"
	"os"
)

// commandFunc runs one subcommand and returns its exit code
type commandFunc func(args []string, stdin io.Reader, stdout, stderr io.Writer) int

// commands maps subcommand names to their handlers
var commands = map[string]commandFunc{
	CmdNameRender:   runRender,
	CmdNameValidate: runValidate,
	CmdNameVersion: func(args []string, _ io.Reader, stdout, stderr io.Writer) int {
		return runVersion(args, stdout, stderr)
	},
	CmdNameHelp: func(args []string, _ io.Reader, stdout, _ io.Writer) int {
		return runHelp(args, stdout)
	},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the CLI entry point, separated from main for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runHelp(nil, stdout)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return runHelp(args[:1], stdout)
	}
	return cmd(args[1:], stdin, stdout, stderr)
}
