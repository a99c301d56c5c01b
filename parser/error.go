package parser

import "fmt"

// ParserError is the single error type the parser surfaces, per
// spec.md §7's unified taxonomy. Parsing halts at the first one —
// there is no per-statement recovery.
type ParserError struct {
	Line    int32
	Column  int
	Message string
}

func CreateParserError(line int32, column int, message string) ParserError {
	return ParserError{Line: line, Column: column, Message: message}
}

func (e ParserError) Error() string {
	return fmt.Sprintf("💥 ParserError: line:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
