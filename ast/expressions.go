// expressions.go contains every Expr node. An expression always
// lowers to a value held in a single memory cell (spec.md §4.3).
package ast

import "fmt"

// Variable names a declared variable and its process-wide unique id,
// assigned at declaration site by internal/ids.
type Variable struct {
	Name string
	ID   uint64
}

// Literal is a raw 8-bit unsigned constant.
type Literal struct {
	Value uint8
}

func (e Literal) Accept(v ExprVisitor) any { return v.VisitLiteral(e) }
func (e Literal) String() string           { return fmt.Sprintf("%d", e.Value) }

// VariableExpr reads a previously declared variable's value.
type VariableExpr struct {
	ID uint64
}

func (e VariableExpr) Accept(v ExprVisitor) any { return v.VisitVariable(e) }
func (e VariableExpr) String() string           { return fmt.Sprintf("${#%d}", e.ID) }

// UserInput reads one byte from stdin ("getchar").
type UserInput struct{}

func (e UserInput) Accept(v ExprVisitor) any { return v.VisitUserInput(e) }
func (e UserInput) String() string           { return "getchar" }

// Reference takes the address of a variable ("&x"). Only a bare
// Variable expression may be referenced — see spec.md §4.3.
type Reference struct {
	Operand Expr
}

func (e Reference) Accept(v ExprVisitor) any { return v.VisitReference(e) }
func (e Reference) String() string           { return fmt.Sprintf("&%v", e.Operand) }

// Dereference loads the cell addressed by its operand ("*p").
type Dereference struct {
	Operand Expr
}

func (e Dereference) Accept(v ExprVisitor) any { return v.VisitDereference(e) }
func (e Dereference) String() string           { return fmt.Sprintf("*%v", e.Operand) }

// MethodCall invokes a declared method by id with positional
// arguments, evaluating to its Return cell.
type MethodCall struct {
	MethodID uint64
	Args     []Expr
}

func (e MethodCall) Accept(v ExprVisitor) any { return v.VisitMethodCall(e) }
func (e MethodCall) String() string           { return fmt.Sprintf("${#%d}(...)", e.MethodID) }

// Binary is a two-operand expression with an operator drawn from
// BinaryOp.
type Binary struct {
	Left     Expr
	Right    Expr
	Operator BinaryOp
}

func (e Binary) Accept(v ExprVisitor) any { return v.VisitBinary(e) }
func (e Binary) String() string           { return fmt.Sprintf("%v %s %v", e.Left, e.Operator, e.Right) }

// Unary is a single-operand expression with an operator drawn from
// UnaryOp.
type Unary struct {
	Operand  Expr
	Operator UnaryOp
}

func (e Unary) Accept(v ExprVisitor) any { return v.VisitUnary(e) }
func (e Unary) String() string           { return fmt.Sprintf("%s%v", e.Operator, e.Operand) }
