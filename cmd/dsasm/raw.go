package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"dsasm/bytecode"
	"dsasm/lexer"
	"dsasm/vm"
)

// rawCmd implements spec.md §2's "raw" mode: it bypasses the parser
// and code generator entirely, feeding the lexer's token stream
// straight to the assembler. The source file is therefore read as
// dsasm's intermediate assembly-like text, not the surface language.
type rawCmd struct {
	debug bool
}

func (*rawCmd) Name() string     { return "raw" }
func (*rawCmd) Synopsis() string { return "Assemble and run dsasm intermediate assembly directly" }
func (*rawCmd) Usage() string {
	return `raw <file>:
  Lex a file as dsasm's intermediate assembly alphabet and execute it
  directly, skipping the parser and code generator.
`
}

func (r *rawCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.debug, "debug", false, "dump tokens, bytecode and final memory")
}

func (r *rawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, err := readSource(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	tokens, err := lexer.New(source).Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 lexing error: %v\n", err)
		return subcommands.ExitFailure
	}

	instructions, err := bytecode.Assemble(tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 assembly error: %v\n", err)
		return subcommands.ExitFailure
	}

	if r.debug {
		dumpTokens("tokens", tokens)
		dumpBytecode(instructions)
	}

	machine := vm.New(os.Stdin, os.Stdout)
	if err := machine.Run(instructions); err != nil {
		fmt.Fprintf(os.Stderr, "💥 runtime error: %v\n", err)
		return subcommands.ExitFailure
	}

	if r.debug {
		dumpMemory(machine)
	}

	return subcommands.ExitSuccess
}
