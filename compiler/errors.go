package compiler

import "fmt"

// CompilerError reports a source-level problem the generator refuses
// to lower, per spec.md §7's unified taxonomy — the analog of a type
// error or an unsupported construct, not a bug in the generator
// itself.
type CompilerError struct {
	Message string
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("💥 CompilerError: %s", e.Message)
}

// DeveloperError reports an invariant the generator itself is
// responsible for upholding having been violated — e.g. running out
// of addressable memory cells. Seeing one means the generator has a
// bug, not the source program.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
