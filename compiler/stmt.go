package compiler

import (
	"dsasm/ast"
	"dsasm/token"
)

// VisitScope lowers each statement in order, then frees any variable
// cells first declared within this scope — mirroring the parser's own
// save/restore of its name environment at scope boundaries.
func (g *Generator) VisitScope(e ast.Scope) any {
	before := make(map[uint8]bool, len(g.cells))
	for i := range g.cells {
		if g.cells[i].kind == cellVariable {
			before[uint8(i)] = true
		}
	}

	for _, stmt := range e.Statements {
		stmt.Accept(g)
	}

	for i := range g.cells {
		if g.cells[i].kind == cellVariable && !before[uint8(i)] {
			g.free(uint8(i))
		}
	}
	return nil
}

// VisitVarDecl allocates a fresh cell, lowers Value into it, and marks
// the cell as holding VarID. Any temporaries the expression needed are
// released immediately afterward — no node leaves temporaries behind
// (spec.md §8).
func (g *Generator) VisitVarDecl(e ast.VarDecl) any {
	addr, err := g.alloc()
	if err != nil {
		panic(err)
	}
	val := g.lowerExpr(e.Value)
	g.move(addr, val)
	g.cells[addr] = cell{kind: cellVariable, id: e.VarID}
	g.freeTemps()
	return nil
}

func (g *Generator) VisitVarSet(e ast.VarSet) any {
	addr, ok := g.findVariable(e.VarID)
	if !ok {
		addr, ok = g.findParameter(e.VarID)
	}
	if !ok {
		compileError("unknown variable #%d", e.VarID)
	}
	val := g.lowerExpr(e.Value)
	g.move(addr, val)
	g.freeTemps()
	return nil
}

func (g *Generator) VisitIf(e ast.If) any {
	end := newLabel("if_end")

	cond := g.lowerExpr(e.Condition)
	g.goto_(cond)
	g.jze(end)
	g.freeTemps()

	e.Body.Accept(g)

	g.label(end)
	return nil
}

func (g *Generator) VisitWhile(e ast.While) any {
	start := newLabel("while")
	end := newLabel("while_end")

	g.label(start)

	cond := g.lowerExpr(e.Condition)
	g.goto_(cond)
	g.jze(end)
	g.freeTemps()

	e.Body.Accept(g)

	g.jump(start)
	g.label(end)
	return nil
}

// VisitFor desugars to a Scope introducing VarName bound to Start,
// then a While over Condition running Body followed by Increment
// each pass (ast.For's own doc comment).
func (g *Generator) VisitFor(e ast.For) any {
	addr, err := g.alloc()
	if err != nil {
		panic(err)
	}
	start := g.lowerExpr(e.Start)
	g.move(addr, start)
	g.cells[addr] = cell{kind: cellVariable, id: e.VarID}
	g.freeTemps()

	startLabel := newLabel("for")
	endLabel := newLabel("for_end")

	g.label(startLabel)

	cond := g.lowerExpr(e.Condition)
	g.goto_(cond)
	g.jze(endLabel)
	g.freeTemps()

	e.Body.Accept(g)
	e.Increment.Accept(g)

	g.jump(startLabel)
	g.label(endLabel)

	g.free(addr)
	return nil
}

func (g *Generator) VisitPutchar(e ast.Putchar) any {
	val := g.lowerExpr(e.Value)
	g.goto_(val)
	g.push(token.CreateToken(token.DOT, 0, 0))
	g.freeTemps()
	return nil
}

// VisitMethodDecl registers the method for later calls; it emits no
// instructions of its own. Method bodies are inlined fresh at each
// call site rather than compiled once and jumped to, since the
// generator has no call-stack primitive to return through (spec.md
// §9's MethodCall open question, resolved in favor of inlining with
// recursion rejected outright — see VisitMethodCall).
func (g *Generator) VisitMethodDecl(e ast.MethodDecl) any {
	g.methods[e.Method.ID] = e.Method
	return nil
}

func (g *Generator) VisitReturn(e ast.Return) any {
	if g.returnLabel == "" {
		compileError("return statement outside of a method body")
	}
	val := g.lowerExpr(e.Value)
	g.move(g.returnCell, val)
	g.freeTemps()
	g.jump(g.returnLabel)
	return nil
}
