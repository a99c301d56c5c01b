package compiler

import "fmt"

// cellKind is the lifecycle state of one simulated memory cell, mirroring
// the runtime state the vm package will later hold at the same address.
type cellKind int

const (
	cellUnused cellKind = iota
	cellUsed
	cellVariable
	cellTemporary
	cellParameter
	cellReturn
)

// cell is one entry of the generator's compile-time memory map. id is
// only meaningful for cellVariable and cellParameter.
type cell struct {
	kind cellKind
	id   uint64
}

func (c cell) String() string {
	switch c.kind {
	case cellUnused:
		return "unused"
	case cellUsed:
		return "used"
	case cellVariable:
		return fmt.Sprintf("variable(#%d)", c.id)
	case cellTemporary:
		return "temporary"
	case cellParameter:
		return fmt.Sprintf("parameter(#%d)", c.id)
	case cellReturn:
		return "return"
	default:
		return "?"
	}
}

// cellCount bounds the generator's own addressable memory to what a
// single byte-wide address token can name (spec.md §4.3's emitted
// "^a" tokens carry an 8-bit address). This is independent of, and
// smaller than, the vm package's 1024-cell runtime array.
const cellCount = 256

// alloc finds and reserves the first Unused cell, left-to-right.
func (g *Generator) alloc() (uint8, error) {
	for i := range g.cells {
		if g.cells[i].kind == cellUnused {
			g.cells[i] = cell{kind: cellUsed}
			return uint8(i), nil
		}
	}
	return 0, DeveloperError{Message: "no free memory cell available"}
}

func (g *Generator) allocTemp() (uint8, error) {
	addr, err := g.alloc()
	if err != nil {
		return 0, err
	}
	g.cells[addr] = cell{kind: cellTemporary}
	return addr, nil
}

func (g *Generator) allocParam(id uint64) (uint8, error) {
	addr, err := g.alloc()
	if err != nil {
		return 0, err
	}
	g.cells[addr] = cell{kind: cellParameter, id: id}
	return addr, nil
}

func (g *Generator) allocReturn() (uint8, error) {
	addr, err := g.alloc()
	if err != nil {
		return 0, err
	}
	g.cells[addr] = cell{kind: cellReturn}
	return addr, nil
}

// free releases a, marking it Unused and emitting a runtime clear so
// the vm's memory matches the generator's bookkeeping.
func (g *Generator) free(a uint8) {
	g.cells[a] = cell{kind: cellUnused}
	g.clear(a)
}

// freeTemps frees every Temporary cell in reverse index order, per
// spec.md §4.3 — last-allocated temporaries are released first.
func (g *Generator) freeTemps() {
	for i := len(g.cells) - 1; i >= 0; i-- {
		if g.cells[i].kind == cellTemporary {
			g.free(uint8(i))
		}
	}
}

// findVariable returns the address of the cell holding variable id,
// or false if no such cell exists (it has not been declared, or has
// already gone out of scope).
func (g *Generator) findVariable(id uint64) (uint8, bool) {
	for i := range g.cells {
		if g.cells[i].kind == cellVariable && g.cells[i].id == id {
			return uint8(i), true
		}
	}
	return 0, false
}

func (g *Generator) findParameter(id uint64) (uint8, bool) {
	for i := range g.cells {
		if g.cells[i].kind == cellParameter && g.cells[i].id == id {
			return uint8(i), true
		}
	}
	return 0, false
}

