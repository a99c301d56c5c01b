package token

import "testing"

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		line      int32
		column    int
		want      Token
	}{
		{
			name:      "create ASSIGN token",
			tokenType: ASSIGN,
			line:      1,
			column:    2,
			want:      Token{TokenType: ASSIGN, Line: 1, Column: 2},
		},
		{
			name:      "create LCUR token",
			tokenType: LCUR,
			line:      0,
			column:    0,
			want:      Token{TokenType: LCUR, Line: 0, Column: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.line, tt.column)
			if got != tt.want {
				t.Errorf("CreateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateIdentifierToken(t *testing.T) {
	got := CreateIdentifierToken("counter", 3, 4)
	want := Token{TokenType: IDENTIFIER, Name: "counter", Line: 3, Column: 4}
	if got != want {
		t.Errorf("CreateIdentifierToken() = %v, want %v", got, want)
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(42, 1, 0)
	want := Token{TokenType: LITERAL, Literal: 42, Line: 1, Column: 0}
	if got != want {
		t.Errorf("CreateLiteralToken() = %v, want %v", got, want)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{CreateToken(ADD, 0, 0), "+"},
		{CreateIdentifierToken("x", 0, 0), "Identifier(x)"},
		{CreateLiteralToken(9, 0, 0), "Literal(9)"},
		{CreateToken(LABEL, 0, 0), ":"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("Token.String() = %q, want %q", got, tt.want)
		}
	}
}
