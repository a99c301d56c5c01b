package bytecode

import (
	"testing"

	"dsasm/token"
)

func TestAssembleMoveStack(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.CARET, 0, 0),
		token.CreateLiteralToken(5, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != MoveStack || out[0].Addr != 5 {
		t.Fatalf("expected MoveStack(5), got %v", out)
	}
}

func TestAssembleCollapsesRunsOfPlusAndMinus(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.SUB, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 instructions, got %d: %v", len(out), out)
	}
	if out[0].Kind != Increment || out[0].Addr != 3 {
		t.Fatalf("expected Increment(3), got %v", out[0])
	}
	if out[1].Kind != Decrement || out[1].Addr != 1 {
		t.Fatalf("expected Decrement(1), got %v", out[1])
	}
}

func TestAssembleGotoDisambiguatedFromMinusRun(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.SUB, 0, 0),
		token.CreateToken(token.LARGER, 0, 0),
		token.CreateLiteralToken(7, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != Goto || out[0].Addr != 7 {
		t.Fatalf("expected Goto(7), got %v", out)
	}
}

func TestAssembleLabelJumpJzeJnze(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.LABEL, 0, 0),
		token.CreateIdentifierToken("loop", 0, 0),
		token.CreateToken(token.JMP, 0, 0),
		token.CreateIdentifierToken("loop", 0, 0),
		token.CreateToken(token.JZE, 0, 0),
		token.CreateIdentifierToken("loop", 0, 0),
		token.CreateToken(token.JNZE, 0, 0),
		token.CreateIdentifierToken("loop", 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKinds := []Kind{Label, Jump, JumpZero, JumpNotZero}
	for i, want := range wantKinds {
		if out[i].Kind != want || out[i].Name != "loop" {
			t.Fatalf("instruction %d: got %v, want %v(loop)", i, out[i], want)
		}
	}
}

func TestAssembleDereferenceRequiresClosingBracket(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.LSQUARE, 0, 0),
		token.CreateLiteralToken(3, 0, 0),
		token.CreateToken(token.RSQUARE, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != Dereference || out[0].Addr != 3 {
		t.Fatalf("expected Dereference(3), got %v", out)
	}

	_, err = Assemble([]token.Token{
		token.CreateToken(token.LSQUARE, 0, 0),
		token.CreateLiteralToken(3, 0, 0),
	})
	if err == nil {
		t.Fatal("expected an error for a missing ']'")
	}
}

func TestAssembleShiftRequiresDoubledAngle(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.LESS, 0, 0),
		token.CreateToken(token.LESS, 0, 0),
		token.CreateLiteralToken(2, 0, 0),
		token.CreateToken(token.LARGER, 0, 0),
		token.CreateToken(token.LARGER, 0, 0),
		token.CreateLiteralToken(4, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Kind != ShiftL || out[0].Addr != 2 {
		t.Fatalf("expected ShiftL(2), got %v", out[0])
	}
	if out[1].Kind != ShiftR || out[1].Addr != 4 {
		t.Fatalf("expected ShiftR(4), got %v", out[1])
	}

	if _, err := Assemble([]token.Token{
		token.CreateToken(token.LESS, 0, 0),
		token.CreateLiteralToken(2, 0, 0),
	}); err == nil {
		t.Fatal("expected an error for a single '<'")
	}
	if _, err := Assemble([]token.Token{
		token.CreateToken(token.LARGER, 0, 0),
		token.CreateLiteralToken(4, 0, 0),
	}); err == nil {
		t.Fatal("expected an error for a single '>'")
	}
}

func TestAssembleCompareAndOr(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.APOSTROPHE, 0, 0),
		token.CreateLiteralToken(1, 0, 0),
		token.CreateToken(token.PIPE, 0, 0),
		token.CreateLiteralToken(2, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Kind != Compare || out[0].Addr != 1 {
		t.Fatalf("expected Compare(1), got %v", out[0])
	}
	if out[1].Kind != Or || out[1].Addr != 2 {
		t.Fatalf("expected Or(2), got %v", out[1])
	}
}

func TestAssembleTrailingEOFIsIgnored(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.TILDE, 0, 0),
		token.CreateToken(token.EOF, 0, 0),
	}
	out, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Kind != Clear {
		t.Fatalf("expected a single Clear instruction, got %v", out)
	}
}

func TestAssembleUnexpectedTokenErrors(t *testing.T) {
	_, err := Assemble([]token.Token{token.CreateToken(token.LET, 0, 0)})
	if err == nil {
		t.Fatal("expected an error for a token outside the assembly alphabet")
	}
	if _, ok := err.(AssembleError); !ok {
		t.Fatalf("expected AssembleError, got %T", err)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	toks := []token.Token{
		token.CreateToken(token.CARET, 0, 0),
		token.CreateLiteralToken(1, 0, 0),
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.DOT, 0, 0),
	}
	first, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Assemble(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical instruction counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("instruction %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}
