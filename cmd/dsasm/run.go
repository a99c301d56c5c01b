package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"dsasm/bytecode"
	"dsasm/compiler"
	"dsasm/lexer"
	"dsasm/parser"
	"dsasm/vm"
)

// runCmd implements dsasm's default mode: the full five-stage
// pipeline of spec.md §2, lexer through interpreter.
type runCmd struct {
	debug bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Run a dsasm source file through the full pipeline" }
func (*runCmd) Usage() string {
	return `run <file>:
  Lex, parse, lower, assemble and execute a dsasm source file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.debug, "debug", false, "dump tokens, AST, emitted tokens, bytecode and final memory")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	nodes, err := parser.ParseAll(tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 parsing error: %v\n", err)
		return subcommands.ExitFailure
	}

	emitted, err := compiler.GenerateAll(nodes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 compilation error: %v\n", err)
		return subcommands.ExitFailure
	}

	instructions, err := bytecode.Assemble(emitted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 assembly error: %v\n", err)
		return subcommands.ExitFailure
	}

	if r.debug {
		dumpTokens("tokens", tokens)
		dumpAST(nodes)
		dumpTokens("emitted tokens", emitted)
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
