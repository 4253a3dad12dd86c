// nuki-compile validates lock configurations and compiles them into a
// firmware bundle.
package main

import (
	"fmt"
	"os"

	"github.com/nuki-esphome/nuki-go/cmd/nuki-compile/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "check":
		exitCode = commands.RunCheck(args, os.Stdout, os.Stderr)
	case "plan":
		exitCode = commands.RunPlan(args, os.Stdout, os.Stderr)
	case "graph":
		exitCode = commands.RunGraph(args, os.Stdout, os.Stderr)
	case "compile":
		exitCode = commands.RunCompile(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("nuki-compile version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`nuki-compile - lock configuration compiler

Usage:
  nuki-compile <command> [options] <file>

Commands:
  validate   Validate the nuki_lock section against the schema
  check      Run the cross-subsystem consistency rules
  plan       Print the build plan for a platform variant
  graph      Print the entity graph
  compile    Run the full pipeline and write the bundle

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  nuki-compile validate front-door.yaml
  nuki-compile plan --variant esp-idf front-door.yaml
  nuki-compile compile -o front-door.txtar front-door.yaml

For command-specific help, run:
  nuki-compile <command> --help`)
}
