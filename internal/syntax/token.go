// Package syntax defines the lexical tokens, the abstract pattern tree, and
// the diagnostic values shared by every stage of the route pipeline.
// A pattern string such as `git commit --amend -m {message}` is lexed into
// tokens, parsed into a Pattern, validated, and compiled; every diagnostic
// produced along the way cites byte offsets into the original source.
package syntax

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// TokenIdentifier is a literal word, parameter name, type tag, or option name.
	TokenIdentifier TokenKind = iota
	// TokenLongDash is `--` introducing a long option form.
	TokenLongDash
	// TokenShortDash is `-` introducing a short option form.
	TokenShortDash
	// TokenLBrace opens a parameter scope.
	TokenLBrace
	// TokenRBrace closes a parameter scope.
	TokenRBrace
	// TokenColon separates a parameter name from its type constraint.
	TokenColon
	// TokenComma separates the long and short forms of an option alias pair.
	TokenComma
	// TokenStar marks a catch-all (inside braces) or a repeated option (after one).
	TokenStar
	// TokenQuestion marks a parameter or option as optional.
	TokenQuestion
	// TokenPipe introduces a description run.
	TokenPipe
	// TokenEndOfOptions is the bare `--` segment.
	TokenEndOfOptions
	// TokenDescription is a free-form description run following a pipe.
	TokenDescription
	// TokenWhitespace separates segments; suppressed by the lexer outside
	// description runs and never surfaces in the token stream.
	TokenWhitespace
	// TokenEOF terminates every token stream.
	TokenEOF
)

// tokenKindNames maps TokenKind to human-readable names.
var tokenKindNames = map[TokenKind]string{
	TokenIdentifier:   "Identifier",
	TokenLongDash:     "LongDash",
	TokenShortDash:    "ShortDash",
	TokenLBrace:       "LBrace",
	TokenRBrace:       "RBrace",
	TokenColon:        "Colon",
	TokenComma:        "Comma",
	TokenStar:         "Star",
	TokenQuestion:     "Question",
	TokenPipe:         "Pipe",
	TokenEndOfOptions: "EndOfOptions",
	TokenDescription:  "Description",
	TokenWhitespace:   "Whitespace",
	TokenEOF:          "EOF",
}

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UnknownToken(%d)", int(k))
}

// Token is a single lexeme with its byte position in the pattern source.
// The lexer is the sole producer of position information; all later
// diagnostics cite token positions.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    int
	Length int
}

// String returns a human-readable representation for debugging.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Pos)
}
