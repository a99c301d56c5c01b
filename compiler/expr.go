package compiler

import (
	"dsasm/ast"
	"dsasm/token"
)

// lowerExpr lowers e and returns the address of the cell holding its
// result.
func (g *Generator) lowerExpr(e ast.Expr) uint8 {
	return e.Accept(g).(uint8)
}

func (g *Generator) VisitLiteral(e ast.Literal) any {
	addr, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	g.clear(addr)
	g.goto_(addr)
	g.add(e.Value)
	return addr
}

// VisitVariable reads a declared variable or parameter by copying its
// value into a fresh temporary, so the variable's own cell is never
// disturbed by whatever the caller does with the result (spec.md §8:
// "every Variable(id) appears exactly once at its lowering point").
func (g *Generator) VisitVariable(e ast.VariableExpr) any {
	src, ok := g.findVariable(e.ID)
	if !ok {
		src, ok = g.findParameter(e.ID)
	}
	if !ok {
		compileError("unknown variable #%d", e.ID)
	}
	dst, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	if err := g.copy(dst, src); err != nil {
		panic(err)
	}
	return dst
}

func (g *Generator) VisitUserInput(e ast.UserInput) any {
	addr, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	g.clear(addr)
	g.goto_(addr)
	g.push(token.CreateToken(token.COMMA, 0, 0))
	return addr
}

// VisitReference takes the address of a variable. Only a bare
// Variable expression may be referenced.
func (g *Generator) VisitReference(e ast.Reference) any {
	variable, ok := e.Operand.(ast.VariableExpr)
	if !ok {
		compileError("cannot take the address of a non-variable expression")
	}
	src, ok := g.findVariable(variable.ID)
	if !ok {
		src, ok = g.findParameter(variable.ID)
	}
	if !ok {
		compileError("unknown variable #%d", variable.ID)
	}

	addr, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	g.goto_(addr)
	g.add(src)
	return addr
}

// VisitDereference loads the cell addressed by its operand's value.
func (g *Generator) VisitDereference(e ast.Dereference) any {
	ptr := g.lowerExpr(e.Operand)

	result, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	g.goto_(result)
	g.push(token.CreateToken(token.LSQUARE, 0, 0))
	g.push(token.CreateLiteralToken(ptr, 0, 0))
	g.push(token.CreateToken(token.RSQUARE, 0, 0))
	return result
}

func (g *Generator) VisitMethodCall(e ast.MethodCall) any {
	method, ok := g.methods[e.MethodID]
	if !ok {
		compileError("call to unknown method #%d", e.MethodID)
	}
	if g.callStack[e.MethodID] {
		compileError("recursive call to method '%s'", method.Name)
	}
	if len(e.Args) != len(method.Parameters) {
		compileError("method '%s' expects %d arguments, got %d", method.Name, len(method.Parameters), len(e.Args))
	}

	argAddrs := make([]uint8, len(e.Args))
	for i, arg := range e.Args {
		argAddrs[i] = g.lowerExpr(arg)
	}

	paramAddrs := make([]uint8, len(method.Parameters))
	for i, param := range method.Parameters {
		addr, err := g.allocParam(param.ID)
		if err != nil {
			panic(err)
		}
		if err := g.copy(addr, argAddrs[i]); err != nil {
			panic(err)
		}
		paramAddrs[i] = addr
	}

	returnAddr, err := g.allocReturn()
	if err != nil {
		panic(err)
	}
	g.clear(returnAddr)

	prevLabel, prevCell := g.returnLabel, g.returnCell
	g.returnLabel = newLabel("return")
	g.returnCell = returnAddr

	g.callStack[e.MethodID] = true
	method.Body.Accept(g)
	delete(g.callStack, e.MethodID)

	g.label(g.returnLabel)
	g.returnLabel, g.returnCell = prevLabel, prevCell

	for _, addr := range paramAddrs {
		g.free(addr)
	}

	result, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	if err := g.copy(result, returnAddr); err != nil {
		panic(err)
	}
	g.free(returnAddr)
	return result
}

func (g *Generator) VisitUnary(e ast.Unary) any {
	operand := g.lowerExpr(e.Operand)
	switch e.Operator {
	case ast.Negate:
		// -x lowers to (MAX - x) + 1, i.e. two's-complement negation.
		g.bnot(operand)
		g.goto_(operand)
		g.add(1)
		return operand
	case ast.Not:
		g.goto_(operand)
		g.push(token.CreateToken(token.BANG, 0, 0))
		return operand
	case ast.BNot:
		g.bnot(operand)
		return operand
	default:
		compileError("unknown unary operator %v", e.Operator)
		return uint8(0)
	}
}

func (g *Generator) VisitBinary(e ast.Binary) any {
	l := g.lowerExpr(e.Left)
	r := g.lowerExpr(e.Right)

	switch e.Operator {
	case ast.Add:
		g.memAdd(l, r)
		return l
	case ast.Sub:
		g.memSub(l, r)
		return l
	case ast.Mult:
		g.goto_(l)
		g.push(token.CreateToken(token.MULT, 0, 0))
		g.push(token.CreateLiteralToken(r, 0, 0))
		return l
	case ast.Div:
		g.goto_(l)
		g.push(token.CreateToken(token.DIV, 0, 0))
		g.push(token.CreateLiteralToken(r, 0, 0))
		return l
	case ast.Modulus:
		g.goto_(l)
		g.push(token.CreateToken(token.DIV, 0, 0))
		g.push(token.CreateLiteralToken(r, 0, 0))
		return r
	case ast.Equals:
		g.memSub(l, r)
		g.goto_(l)
		g.push(token.CreateToken(token.BANG, 0, 0))
		return l
	case ast.NotEquals:
		g.memSub(l, r)
		g.goto_(l)
		g.reduce()
		return l
	case ast.Greater:
		g.cmp(l, r)
		g.goto_(l)
		g.sub(1)
		g.push(token.CreateToken(token.BANG, 0, 0))
		return l
	case ast.LessEqual:
		g.cmp(l, r)
		g.goto_(l)
		g.sub(2)
		g.push(token.CreateToken(token.BANG, 0, 0))
		return l
	case ast.Less:
		lt, err := g.allocTemp()
		if err != nil {
			panic(err)
		}
		rt, err := g.allocTemp()
		if err != nil {
			panic(err)
		}
		if err := g.copy(lt, l); err != nil {
			panic(err)
		}
		if err := g.copy(rt, r); err != nil {
			panic(err)
		}
		// rt = r - l, saturating: non-zero exactly when l < r.
		g.memSub(rt, lt)
		g.cmp(l, r)
		g.goto_(l)
		g.sub(2)
		g.push(token.CreateToken(token.BANG, 0, 0))
		g.goto_(l)
		g.push(token.CreateToken(token.MULT, 0, 0))
		g.push(token.CreateLiteralToken(rt, 0, 0))
		g.reduce()
		return l
	case ast.GreaterEqual:
		lt, err := g.allocTemp()
		if err != nil {
			panic(err)
		}
		rt, err := g.allocTemp()
		if err != nil {
			panic(err)
		}
		if err := g.copy(lt, l); err != nil {
			panic(err)
		}
		if err := g.copy(rt, r); err != nil {
			panic(err)
		}
		// rt = !(r - l), saturating: 1 exactly when l >= r.
		g.memSub(rt, lt)
		g.goto_(rt)
		g.push(token.CreateToken(token.BANG, 0, 0))
		g.cmp(l, r)
		g.goto_(l)
		g.sub(1)
		g.push(token.CreateToken(token.BANG, 0, 0))
		g.memAdd(l, rt)
		g.goto_(l)
		g.reduce()
		return l
	case ast.ShiftL:
		g.goto_(l)
		g.push(token.CreateToken(token.LESS, 0, 0))
		g.push(token.CreateToken(token.LESS, 0, 0))
		g.push(token.CreateLiteralToken(r, 0, 0))
		return l
	case ast.ShiftR:
		g.goto_(l)
		g.push(token.CreateToken(token.LARGER, 0, 0))
		g.push(token.CreateToken(token.LARGER, 0, 0))
		g.push(token.CreateLiteralToken(r, 0, 0))
		return l
	case ast.BAnd:
		// De Morgan's: l & r == ~(~l | ~r).
		g.bnot(l)
		g.bnot(r)
		g.or(l, r)
		g.bnot(l)
		return l
	case ast.BOr:
		g.or(l, r)
		return l
	case ast.BXor:
		// l ^ r == (l | r) - (l & r): l & r is always a submask of
		// l | r, so the subtraction never borrows across bits and this
		// plain arithmetic difference equals the bitwise xor exactly.
		// Computed via two temporaries so both source cells survive
		// long enough to be combined.
		lt, err := g.allocTemp()
		if err != nil {
			panic(err)
		}
		rt, err := g.allocTemp()
		if err != nil {
			panic(err)
		}
		if err := g.copy(lt, l); err != nil {
			panic(err)
		}
		if err := g.copy(rt, r); err != nil {
			panic(err)
		}
		g.or(l, r)
		g.bnot(lt)
		g.bnot(rt)
		g.or(lt, rt)
		g.bnot(lt)
		g.memSub(l, lt)
		return l
	case ast.And:
		g.goto_(r)
		g.reduce()
		g.goto_(l)
		g.reduce()
		g.push(token.CreateToken(token.MULT, 0, 0))
		g.push(token.CreateLiteralToken(r, 0, 0))
		return l
	case ast.Or:
		g.memAdd(l, r)
		g.goto_(l)
		g.reduce()
		return l
	default:
		compileError("unknown binary operator %v", e.Operator)
		return uint8(0)
	}
}
