package bytecode

import "fmt"

// AssembleError reports a token sequence the assembler cannot map to
// a single Instruction, per spec.md §7's unified taxonomy.
type AssembleError struct {
	Message string
}

func (e AssembleError) Error() string {
	return fmt.Sprintf("💥 AssembleError: %s", e.Message)
}
