// Package compiler lowers a parsed AST into dsasm's intermediate
// assembly-like token stream (spec.md §4.3). The output is consumed by
// the bytecode package, not executed directly.
//
// Generator plays the role the teacher's ASTCompiler plays for its own
// bytecode target: a visitor over the AST that emits instructions as
// it walks, backed by a small amount of allocation bookkeeping. Here
// that bookkeeping is the Cell descriptor array rather than a locals
// stack, because the target machine is flat simulated memory instead
// of a VM operand stack.
package compiler

import (
	"fmt"

	"dsasm/ast"
	"dsasm/internal/ids"
	"dsasm/token"
)

// Generator walks an AST and emits dsasm's intermediate token stream.
// Create one with New and call Generate once per program via
// GenerateAll, or call Generate directly, once per incremental chunk,
// to keep reusing the same cell map and method registry across calls
// (e.g. a REPL replaying successive lines against one Generator).
type Generator struct {
	cells   [cellCount]cell
	pointer uint8
	output  []token.Token

	methods   map[uint64]ast.Method
	callStack map[uint64]bool

	// returnLabel and returnCell describe the innermost method call
	// currently being inlined, if any; returnLabel is empty outside of
	// any method body.
	returnLabel string
	returnCell  uint8
}

// New initializes an empty Generator.
func New() *Generator {
	return &Generator{
		methods:   make(map[uint64]ast.Method),
		callStack: make(map[uint64]bool),
	}
}

// Clone returns a deep copy of g's state, suitable for generating
// against speculatively and discarding on error — e.g. a REPL that
// wants to keep its persistent Generator untouched by a line that
// fails partway through lowering.
func (g *Generator) Clone() *Generator {
	clone := &Generator{
		cells:       g.cells,
		pointer:     g.pointer,
		output:      append([]token.Token(nil), g.output...),
		methods:     make(map[uint64]ast.Method, len(g.methods)),
		callStack:   make(map[uint64]bool, len(g.callStack)),
		returnLabel: g.returnLabel,
		returnCell:  g.returnCell,
	}
	for id, m := range g.methods {
		clone.methods[id] = m
	}
	for id, inFlight := range g.callStack {
		clone.callStack[id] = inFlight
	}
	return clone
}

func (g *Generator) push(t token.Token) {
	g.output = append(g.output, t)
}

func newLabel(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, ids.Labels.Next())
}

// GenerateAll lowers a full program — top-level statements and method
// declarations, in source order — into dsasm's intermediate token
// stream, using a fresh Generator.
func GenerateAll(nodes []ast.Node) ([]token.Token, error) {
	return New().Generate(nodes)
}

// Generate lowers nodes against g's existing state — its cell map,
// registered methods and emitted output so far — and returns only the
// tokens newly emitted for this call. This is what lets a caller (e.g.
// a REPL) keep reusing the same Generator across multiple calls: a
// variable declared by an earlier Generate is still a cellVariable in
// g.cells, and thus still resolvable, on every later call.
func (g *Generator) Generate(nodes []ast.Node) (out []token.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case CompilerError:
				err = v
			case DeveloperError:
				err = v
			default:
				panic(r)
			}
		}
	}()

	start := len(g.output)
	for _, node := range nodes {
		node.Accept(g)
	}
	return g.output[start:], nil
}

// PrintMemory renders the generator's cell map for -debug dumps,
// mirroring the original generator's own print_memory helper.
func (g *Generator) PrintMemory() string {
	s := ""
	for i := range g.cells {
		if g.cells[i].kind != cellUnused {
			s += fmt.Sprintf("[%d] %s\n", i, g.cells[i])
		}
	}
	return s
}

func compileError(format string, args ...any) {
	panic(CompilerError{Message: fmt.Sprintf(format, args...)})
}
