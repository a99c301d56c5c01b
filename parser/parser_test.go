package parser

import (
	"testing"

	"dsasm/ast"
	"dsasm/lexer"
)

func parseSource(t *testing.T, src string) ([]ast.Node, error) {
	t.Helper()
	l := lexer.New(src)
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	return ParseAll(toks)
}

func TestParseVarDeclAndPutchar(t *testing.T) {
	nodes, err := parseSource(t, "let a = 3 + 4 putchar a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(nodes))
	}

	decl, ok := nodes[0].(ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", nodes[0])
	}
	bin, ok := decl.Value.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary value, got %T", decl.Value)
	}
	if bin.Operator != ast.Add {
		t.Fatalf("expected Add, got %v", bin.Operator)
	}

	put, ok := nodes[1].(ast.Putchar)
	if !ok {
		t.Fatalf("expected Putchar, got %T", nodes[1])
	}
	ref, ok := put.Value.(ast.VariableExpr)
	if !ok || ref.ID != decl.VarID {
		t.Fatalf("expected putchar to reference declared variable, got %#v", put.Value)
	}
}

func TestParseRedeclarationErrors(t *testing.T) {
	_, err := parseSource(t, "let x = 1 let x = 2")
	if err == nil {
		t.Fatal("expected an error for redeclaring x")
	}
	pe, ok := err.(ParserError)
	if !ok {
		t.Fatalf("expected ParserError, got %T", err)
	}
	if pe.Message != "Variable 'x' already exists" {
		t.Fatalf("unexpected message: %q", pe.Message)
	}
}

func TestParseUnknownVariableErrors(t *testing.T) {
	_, err := parseSource(t, "putchar missing")
	if err == nil {
		t.Fatal("expected an error for an undeclared variable")
	}
}

func TestParsePrecedenceRotation(t *testing.T) {
	// "1 + 2 * 3" must bind as 1 + (2 * 3), not (1 + 2) * 3.
	nodes, err := parseSource(t, "putchar 1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	put := nodes[0].(ast.Putchar)
	top, ok := put.Value.(ast.Binary)
	if !ok || top.Operator != ast.Add {
		t.Fatalf("expected top-level Add, got %#v", put.Value)
	}
	rhs, ok := top.Right.(ast.Binary)
	if !ok || rhs.Operator != ast.Mult {
		t.Fatalf("expected right-hand Mult, got %#v", top.Right)
	}
}

func TestParseLeftAssociativitySamePrecedence(t *testing.T) {
	// "1 - 2 - 3" must bind as (1 - 2) - 3.
	nodes, err := parseSource(t, "putchar 1 - 2 - 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	put := nodes[0].(ast.Putchar)
	top, ok := put.Value.(ast.Binary)
	if !ok || top.Operator != ast.Sub {
		t.Fatalf("expected top-level Sub, got %#v", put.Value)
	}
	lhs, ok := top.Left.(ast.Binary)
	if !ok || lhs.Operator != ast.Sub {
		t.Fatalf("expected left-hand Sub, got %#v", top.Left)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	// "(1 + 2) * 3" must keep the parenthesized Add as the left operand.
	nodes, err := parseSource(t, "putchar (1 + 2) * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	put := nodes[0].(ast.Putchar)
	top, ok := put.Value.(ast.Binary)
	if !ok || top.Operator != ast.Mult {
		t.Fatalf("expected top-level Mult, got %#v", put.Value)
	}
	lhs, ok := top.Left.(ast.Binary)
	if !ok || lhs.Operator != ast.Add {
		t.Fatalf("expected left-hand Add, got %#v", top.Left)
	}
}

func TestParseParenthesizedUnaryDoesNotDoubleConsumeCloseParen(t *testing.T) {
	nodes, err := parseSource(t, "let a = 5 putchar (-a)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	put := nodes[1].(ast.Putchar)
	u, ok := put.Value.(ast.Unary)
	if !ok || u.Operator != ast.Negate {
		t.Fatalf("expected Unary Negate, got %#v", put.Value)
	}
}

func TestParseForLoopHeader(t *testing.T) {
	nodes, err := parseSource(t, "for(i = 0; i < 10; i = i + 1) putchar i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forNode, ok := nodes[0].(ast.For)
	if !ok {
		t.Fatalf("expected For, got %T", nodes[0])
	}
	if forNode.VarName != "i" {
		t.Fatalf("expected loop variable 'i', got %q", forNode.VarName)
	}
	if _, ok := forNode.Increment.(ast.VarSet); !ok {
		t.Fatalf("expected Increment to be a VarSet statement, got %T", forNode.Increment)
	}
}

func TestParseMethodDeclAndCall(t *testing.T) {
	nodes, err := parseSource(t, "method add(a, b) { return a + b } putchar add(1, 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(nodes))
	}
	decl, ok := nodes[0].(ast.MethodDecl)
	if !ok {
		t.Fatalf("expected MethodDecl, got %T", nodes[0])
	}
	if len(decl.Method.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(decl.Method.Parameters))
	}

	put := nodes[1].(ast.Putchar)
	call, ok := put.Value.(ast.MethodCall)
	if !ok {
		t.Fatalf("expected MethodCall, got %T", put.Value)
	}
	if call.MethodID != decl.Method.ID {
		t.Fatalf("expected call to reference declared method id")
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call arguments, got %d", len(call.Args))
	}
}

func TestParseUnknownMethodErrors(t *testing.T) {
	_, err := parseSource(t, "putchar missing(1)")
	if err == nil {
		t.Fatal("expected an error for an undeclared method")
	}
}

func TestParseMissingCloseParenErrors(t *testing.T) {
	_, err := parseSource(t, "putchar (1 + 2")
	if err == nil {
		t.Fatal("expected an error for a missing ')'")
	}
}

func TestParseScopeRestoresEnvironment(t *testing.T) {
	nodes, err := parseSource(t, "{ let a = 1 } putchar a")
	if err == nil {
		t.Fatalf("expected an error: 'a' should not be visible after its scope closes, got nodes=%v", nodes)
	}
}

// TestNewWithEnvCarriesVariablesAcrossParses exercises the scenario a
// REPL depends on: a name declared by one Parser must resolve in a
// later Parser seeded with the first one's Env(), as if the two
// source snippets were typed on successive lines of the same session.
func TestNewWithEnvCarriesVariablesAcrossParses(t *testing.T) {
	l := lexer.New("let a = 5")
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	first := New(toks)
	if _, err := first.Parse(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vars, methods := first.Env()

	l2 := lexer.New("putchar a")
	toks2, err := l2.Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	second := NewWithEnv(toks2, vars, methods)
	nodes, err := second.Parse()
	if err != nil {
		t.Fatalf("expected 'a' to resolve via the carried-over environment, got: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(nodes))
	}
}
