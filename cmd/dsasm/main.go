// Command dsasm is the driver for the toolchain described in spec.md
// §6: it wires the lexer, parser, code generator, assembler and vm
// packages together behind a small subcommand CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&rawCmd{}, "")
	subcommands.Register(&emitCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func readSource(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("💥 file not provided")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("💥 failed to read file: %w", err)
	}
	return string(data), nil
}
