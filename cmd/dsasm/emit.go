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
)

// emitCmd runs the pipeline up to and including assembly, printing
// every intermediate artifact without ever executing it — the -debug
// contract of spec.md §6, as its own subcommand rather than a flag on
// run, for inspecting a program that might never terminate.
type emitCmd struct {
	raw bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "Emit tokens, AST and bytecode for a source file without running it" }
func (*emitCmd) Usage() string {
	return `emit <file>:
  Dump tokens, AST, emitted tokens and bytecode without executing.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.raw, "raw", false, "treat the file as intermediate assembly and skip the parser/generator")
}

func (cmd *emitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	dumpTokens("tokens", tokens)

	emitted := tokens
	if !cmd.raw {
		nodes, err := parser.ParseAll(tokens)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 parsing error: %v\n", err)
			return subcommands.ExitFailure
		}
		dumpAST(nodes)

		emitted, err = compiler.GenerateAll(nodes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 compilation error: %v\n", err)
			return subcommands.ExitFailure
		}
		dumpTokens("emitted tokens", emitted)
	}

	instructions, err := bytecode.Assemble(emitted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 assembly error: %v\n", err)
		return subcommands.ExitFailure
	}
	dumpBytecode(instructions)

	return subcommands.ExitSuccess
}
