package main

import (
	"fmt"

	"dsasm/ast"
	"dsasm/bytecode"
	"dsasm/token"
	"dsasm/vm"
)

// dumpTokens prints a token stream one entry per line, used for both
// the lexer's source tokens and the generator's emitted intermediate
// stream, per spec.md §6.
func dumpTokens(title string, tokens []token.Token) {
	fmt.Printf("--- %s ---\n", title)
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	fmt.Println()
}

func dumpAST(nodes []ast.Node) {
	fmt.Println("--- ast ---")
	for _, n := range nodes {
		fmt.Print(ast.String(n))
	}
	fmt.Println()
}

func dumpBytecode(instructions []bytecode.Instruction) {
	fmt.Println("--- bytecode ---")
	for i, instr := range instructions {
		fmt.Printf("%4d  %s\n", i, instr)
	}
	fmt.Println()
}

// dumpMemory renders the final memory state as a grid, mirroring the
// original interpreter's own print_memory helper. This grid-rendering
// concern is explicitly out of scope as a design problem (spec.md §1)
// — it exists here only to satisfy -debug's external contract.
func dumpMemory(machine *vm.VM) {
	fmt.Println("--- memory ---")
	memory := machine.Memory()
	const columns = 16
	for row := 0; row < len(memory); row += columns {
		fmt.Printf("%#04x |", row)
		for col := 0; col < columns && row+col < len(memory); col++ {
			fmt.Printf(" %5d |", memory[row+col])
		}
		fmt.Println()
	}
}
