package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"dsasm/ast"
	"dsasm/bytecode"
	"dsasm/compiler"
	"dsasm/lexer"
	"dsasm/parser"
	"dsasm/token"
	"dsasm/vm"
)

// parseErrorAtEOF reports whether err is a parser.ParserError located
// at the position of the token stream's EOF token.
func parseErrorAtEOF(err error, tokens []token.Token) bool {
	syntaxErr, ok := err.(parser.ParserError)
	if !ok || len(tokens) == 0 {
		return false
	}
	eof := tokens[len(tokens)-1]
	return syntaxErr.Line == eof.Line && syntaxErr.Column == eof.Column
}

// replCmd runs dsasm's full pipeline one line at a time against a
// single persistent vm.VM, parser variable/method environment and
// compiler.Generator, so variables and methods declared on one line
// stay live — and resolvable — on the next. An interactive supplement
// to spec.md §6's batch CLI contract, in the teacher's own
// isInputReady/buffered-line idiom (cmd_repl_compiled.go).
type replCmd struct {
	debug bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive dsasm session" }
func (*replCmd) Usage() string {
	return `repl:
  Run dsasm source a line at a time against a persistent VM.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.debug, "debug", false, "dump emitted tokens and bytecode for each line")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	machine := vm.New(os.Stdin, os.Stdout)
	gen := compiler.New()
	var vars []ast.Variable
	var methods []ast.Method
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, err := lexer.New(source).Scan()
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		p := parser.NewWithEnv(tokens, vars, methods)
		nodes, err := p.Parse()
		if err != nil {
			// A syntax error reported right at the EOF token usually
			// just means the statement isn't finished yet (e.g. a
			// trailing "let a" still waiting for its "= value", which
			// isInputReady's checks don't catch) — keep buffering
			// instead of surfacing a premature error.
			if parseErrorAtEOF(err, tokens) {
				continue
			}
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		// Try generation against a throwaway clone of gen first: a line
		// that parses but panics partway through lowering (a
		// CompilerError/DeveloperError) must not leave gen's cell map or
		// registered methods half-mutated for the next line.
		attempt := gen.Clone()
		emitted, err := attempt.Generate(nodes)
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}
		gen = attempt
		vars, methods = p.Env()

		instructions, err := bytecode.Assemble(emitted)
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		if r.debug {
			dumpTokens("emitted tokens", emitted)
			dumpBytecode(instructions)
		}

		if err := machine.Run(instructions); err != nil {
			fmt.Println(err)
		} else {
			fmt.Println(machine.Memory()[machine.StackPtr()])
		}
		buffer.Reset()
	}
}

// isInputReady reports whether a buffered line (or lines) form a
// complete statement: braces and parens must be balanced, and the
// last real token must not be one that always expects more input to
// follow (an operator, an opening bracket, or a keyword that always
// introduces a body/expression).
func isInputReady(tokens []token.Token) bool {
	balance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR, token.LPA:
			balance++
		case token.RCUR, token.RPA:
			balance--
		}
	}
	if balance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV, token.PERCENT,
		token.BANG, token.AMP, token.PIPE, token.CARET, token.LESS, token.LARGER,
		token.COMMA, token.LPA, token.LCUR,
		token.LET, token.IF, token.WHILE, token.FOR, token.PUTCHAR, token.RETURN,
		token.METHOD:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}
