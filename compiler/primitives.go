package compiler

import (
	"fmt"

	"dsasm/internal/ids"
	"dsasm/token"
)

// goto moves the generator's tracked cursor to address a and emits the
// matching "^a" token pair. Every other primitive routes through this
// rather than emitting a bare address, so g.pointer always reflects
// what the emitted stream will do at runtime.
func (g *Generator) goto_(a uint8) {
	g.pointer = a
	g.push(token.CreateToken(token.CARET, 0, 0))
	g.push(token.CreateLiteralToken(a, 0, 0))
}

// add emits n increments of the cell currently under the cursor.
func (g *Generator) add(n uint8) {
	for i := uint8(0); i < n; i++ {
		g.push(token.CreateToken(token.ADD, 0, 0))
	}
}

// sub emits n decrements of the cell currently under the cursor.
func (g *Generator) sub(n uint8) {
	for i := uint8(0); i < n; i++ {
		g.push(token.CreateToken(token.SUB, 0, 0))
	}
}

// clear moves to a and zeroes it.
func (g *Generator) clear(a uint8) {
	g.goto_(a)
	g.push(token.CreateToken(token.TILDE, 0, 0))
}

func (g *Generator) label(name string) {
	g.push(token.CreateToken(token.LABEL, 0, 0))
	g.push(token.CreateIdentifierToken(name, 0, 0))
}

func (g *Generator) jump(name string) {
	g.push(token.CreateToken(token.JMP, 0, 0))
	g.push(token.CreateIdentifierToken(name, 0, 0))
}

func (g *Generator) jze(name string) {
	g.push(token.CreateToken(token.JZE, 0, 0))
	g.push(token.CreateIdentifierToken(name, 0, 0))
}

func (g *Generator) jnze(name string) {
	g.push(token.CreateToken(token.JNZE, 0, 0))
	g.push(token.CreateIdentifierToken(name, 0, 0))
}

// move transfers src's value into dst, leaving src at zero, via a
// decrement/increment loop guarded against src already being zero.
func (g *Generator) move(dst, src uint8) {
	g.clear(dst)

	id := ids.Labels.Next()
	loop := fmt.Sprintf("__%d_move", id)
	skip := fmt.Sprintf("__%d_skip_move", id)

	g.goto_(src)
	g.jze(skip)

	g.label(loop)
	g.goto_(dst)
	g.add(1)
	g.goto_(src)
	g.sub(1)
	g.jnze(loop)

	g.label(skip)
}

// copy transfers src's value into dst while leaving src unchanged: it
// routes the value through a temporary cell and then moves that
// temporary back into src.
func (g *Generator) copy(dst, src uint8) error {
	g.clear(dst)

	id := ids.Labels.Next()
	skip := fmt.Sprintf("__%d_skip_copy", id)

	g.goto_(src)
	g.jze(skip)

	temp, err := g.allocTemp()
	if err != nil {
		return err
	}
	g.clear(temp)

	loop := fmt.Sprintf("__%d_copy", id)
	g.label(loop)
	g.goto_(dst)
	g.add(1)
	g.goto_(temp)
	g.add(1)
	g.goto_(src)
	g.sub(1)
	g.jnze(loop)

	g.move(src, temp)
	g.free(temp)

	g.label(skip)
	g.goto_(dst)
	return nil
}

// memAdd destructively adds src into dst: dst += src, src left at
// zero. Guarded against src already being zero.
func (g *Generator) memAdd(dst, src uint8) {
	id := ids.Labels.Next()
	loop := fmt.Sprintf("__%d_mem_add", id)
	skip := fmt.Sprintf("__%d_skip_mem_add", id)

	g.goto_(src)
	g.jze(skip)
	g.label(loop)
	g.goto_(dst)
	g.add(1)
	g.goto_(src)
	g.sub(1)
	g.jnze(loop)
	g.label(skip)
}

// memSub destructively subtracts src from dst: dst -= src. This
// saturates at zero rather than wrapping — it stops early if dst
// reaches zero before src does, in which case src keeps the part it
// could not subtract; otherwise src is left at zero.
func (g *Generator) memSub(dst, src uint8) {
	id := ids.Labels.Next()
	loop := fmt.Sprintf("__%d_mem_sub", id)
	skip := fmt.Sprintf("__%d_skip_mem_sub", id)

	g.goto_(src)
	g.jze(skip)
	g.label(loop)
	g.goto_(dst)
	g.jze(skip)
	g.sub(1)
	g.goto_(src)
	g.sub(1)
	g.jnze(loop)
	g.label(skip)
}

// bnot computes the bitwise complement of the byte at addr in place,
// as MAX - addr via mem_sub(temp, addr). The instruction-level "~"
// token is the Clear op, not bitwise-not, so this is built
// algorithmically rather than emitted directly. memSub's dst-zero
// guard never fires here: temp starts at 255 >= addr, so both reach
// zero on the same iteration if at all.
func (g *Generator) bnot(addr uint8) {
	max, err := g.allocTemp()
	if err != nil {
		panic(err)
	}
	g.goto_(max)
	g.add(255)
	g.memSub(max, addr)
	g.move(addr, max)
	g.free(max)
}

// cmp moves to l and emits a single Compare(r) token: the vm sets
// cell l to 1 if its prior value was greater than cell r's, 2
// otherwise.
func (g *Generator) cmp(l, r uint8) {
	g.goto_(l)
	g.push(token.CreateToken(token.APOSTROPHE, 0, 0))
	g.push(token.CreateLiteralToken(r, 0, 0))
}

// or moves to l and emits a single Or(r) token, combining cells l and
// r in place at l.
func (g *Generator) or(l, r uint8) {
	g.goto_(l)
	g.push(token.CreateToken(token.PIPE, 0, 0))
	g.push(token.CreateLiteralToken(r, 0, 0))
}

// reduce normalizes the cell currently under the cursor to 0 or 1 by
// inverting it twice.
func (g *Generator) reduce() {
	g.push(token.CreateToken(token.BANG, 0, 0))
	g.push(token.CreateToken(token.BANG, 0, 0))
}
