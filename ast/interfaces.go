// Package ast defines the abstract syntax tree produced by the parser
// and consumed by the code generator: Node (statements) and Expr
// (expressions), both following the visitor design pattern so that
// consumers such as the generator can operate on the tree without its
// node types knowing about them.
package ast

// ExprVisitor is the interface for operating on all Expr nodes. The
// code generator is its only implementation; -debug dumps use the
// nodes' String methods instead.
type ExprVisitor interface {
	VisitLiteral(e Literal) any
	VisitVariable(e VariableExpr) any
	VisitUserInput(e UserInput) any
	VisitReference(e Reference) any
	VisitDereference(e Dereference) any
	VisitMethodCall(e MethodCall) any
	VisitBinary(e Binary) any
	VisitUnary(e Unary) any
}

// NodeVisitor is the interface for operating on all Node (statement)
// types.
type NodeVisitor interface {
	VisitScope(n Scope) any
	VisitVarDecl(n VarDecl) any
	VisitVarSet(n VarSet) any
	VisitIf(n If) any
	VisitWhile(n While) any
	VisitFor(n For) any
	VisitPutchar(n Putchar) any
	VisitMethodDecl(n MethodDecl) any
	VisitReturn(n Return) any
}

// Expr is the base interface for all expression nodes. Expressions are
// immutable once built, per spec.md §3.
type Expr interface {
	Accept(v ExprVisitor) any
}

// Node is the base interface for all statement nodes.
type Node interface {
	Accept(v NodeVisitor) any
}
