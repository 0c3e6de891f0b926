// Package parser turns a route pattern string into an abstract pattern tree.
// The lexer and parser collect typed diagnostics instead of failing fast: a
// malformed input yields a partial tree plus the diagnostic list, and the
// caller rejects the pattern when the list is non-empty.
package parser

import (
	"fmt"

	"github.com/nuru-cli/nuru/internal/syntax"
)

// lexer is a single-pass, position-tracked scanner over a pattern string.
// It has two modes: outside braces (segment tokens) and inside braces
// (parameter tokens). Whitespace is suppressed outside description runs.
type lexer struct {
	src    string
	pos    int
	tokens []syntax.Token
	diags  []*syntax.Diagnostic
}

// Lex scans a pattern source into tokens. The returned stream always ends
// with an EOF token; diagnostics use the L* code band.
func Lex(src string) ([]syntax.Token, []*syntax.Diagnostic) {
	l := &lexer{src: src}
	l.run()
	return l.tokens, l.diags
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '{':
			l.emit(syntax.TokenLBrace, l.pos, 1)
			l.pos++
			l.lexBraceBody()
		case c == '-':
			l.lexDash()
		case c == ',':
			l.emit(syntax.TokenComma, l.pos, 1)
			l.pos++
		case c == '?':
			l.emit(syntax.TokenQuestion, l.pos, 1)
			l.pos++
		case c == '*':
			l.emit(syntax.TokenStar, l.pos, 1)
			l.pos++
		case c == '|':
			l.emit(syntax.TokenPipe, l.pos, 1)
			l.pos++
			l.lexSegmentDescription()
		case c == '}' || c == ':':
			l.error(syntax.LexStraySeparator, l.pos, 1,
				fmt.Sprintf("separator %q is not valid here", string(c)))
			l.resync()
		case isIdentStart(c):
			l.lexIdentifier()
		default:
			l.error(syntax.LexUnexpectedChar, l.pos, 1,
				fmt.Sprintf("unexpected character %q", string(c)))
			l.resync()
		}
	}
	l.emit(syntax.TokenEOF, l.pos, 0)
}

// lexDash distinguishes the three dash forms: `--name` (long option),
// `--` alone (end-of-options), and `-x` (short option).
func (l *lexer) lexDash() {
	start := l.pos
	if l.pos+1 < len(l.src) && l.src[l.pos+1] == '-' {
		after := l.pos + 2
		switch {
		case after >= len(l.src) || isSpace(l.src[after]):
			l.emit(syntax.TokenEndOfOptions, start, 2)
			l.pos = after
		case isIdentStart(l.src[after]):
			l.emit(syntax.TokenLongDash, start, 2)
			l.pos = after
			l.lexIdentifier()
		default:
			l.error(syntax.LexUnexpectedChar, after, 1,
				fmt.Sprintf("unexpected character %q after %q", string(l.src[after]), "--"))
			l.resync()
		}
		return
	}
	if l.pos+1 < len(l.src) && isIdentStart(l.src[l.pos+1]) {
		l.emit(syntax.TokenShortDash, start, 1)
		l.pos++
		l.lexIdentifier()
		return
	}
	l.error(syntax.LexEmptyIdentifier, start, 1, "expected option name after '-'")
	l.resync()
}

// lexIdentifier consumes an identifier run. Identifiers start with a letter,
// digit, or underscore; dashes and dots are allowed after the first
// character so literals like `cherry-pick` lex as one token.
func (l *lexer) lexIdentifier() {
	start := l.pos
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.error(syntax.LexEmptyIdentifier, start, 0, "expected identifier")
		return
	}
	l.emit(syntax.TokenIdentifier, start, l.pos-start)
}

// lexBraceBody scans the interior of a `{...}` parameter scope: an optional
// leading `*`, the name, `:type`, `?`, and a `|description` run terminated
// by the closing brace.
func (l *lexer) lexBraceBody() {
	open := l.pos - 1
	if l.pos < len(l.src) && l.src[l.pos] == '*' {
		l.emit(syntax.TokenStar, l.pos, 1)
		l.pos++
	}
	if l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
		l.lexIdentifier()
	} else {
		l.error(syntax.LexEmptyIdentifier, l.pos, 0, "expected parameter name after '{'")
	}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '}':
			l.emit(syntax.TokenRBrace, l.pos, 1)
			l.pos++
			return
		case c == ':':
			l.emit(syntax.TokenColon, l.pos, 1)
			l.pos++
			if l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
				l.lexIdentifier()
			} else {
				l.error(syntax.LexEmptyIdentifier, l.pos, 0, "expected type name after ':'")
			}
		case c == '?':
			l.emit(syntax.TokenQuestion, l.pos, 1)
			l.pos++
		case c == '|':
			l.emit(syntax.TokenPipe, l.pos, 1)
			l.pos++
			l.lexBraceDescription()
		case isSpace(c):
			l.error(syntax.LexUnexpectedChar, l.pos, 1, "whitespace is not allowed inside '{...}'")
			return
		default:
			l.error(syntax.LexUnexpectedChar, l.pos, 1,
				fmt.Sprintf("unexpected character %q inside '{...}'", string(c)))
			l.resync()
			return
		}
	}
	l.error(syntax.LexUnterminatedBrace, open, 1, "unterminated '{'")
}

// lexBraceDescription consumes free-form description text up to the closing
// brace. The brace itself is left for lexBraceBody.
func (l *lexer) lexBraceDescription() {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '}' {
		l.pos++
	}
	if l.pos > start {
		l.emit(syntax.TokenDescription, start, l.pos-start)
	}
}

// lexSegmentDescription consumes description text following a `|` outside
// braces. The run ends at end of input or before whitespace that introduces
// the next segment's option or parameter.
func (l *lexer) lexSegmentDescription() {
	start := l.pos
	end := start
	for end < len(l.src) {
		if isSpace(l.src[end]) {
			next := end
			for next < len(l.src) && isSpace(l.src[next]) {
				next++
			}
			if next < len(l.src) && (l.src[next] == '-' || l.src[next] == '{') {
				break
			}
		}
		end++
	}
	for end > start && isSpace(l.src[end-1]) {
		end--
	}
	if end > start {
		l.emit(syntax.TokenDescription, start, end-start)
	} else {
		l.error(syntax.LexEmptyIdentifier, start, 0, "expected description text after '|'")
	}
	l.pos = end
}

// resync skips to the next whitespace so one bad byte produces one
// diagnostic instead of a cascade.
func (l *lexer) resync() {
	for l.pos < len(l.src) && !isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) emit(kind syntax.TokenKind, pos, length int) {
	l.tokens = append(l.tokens, syntax.Token{
		Kind:   kind,
		Lexeme: l.src[pos : pos+length],
		Pos:    pos,
		Length: length,
	})
}

func (l *lexer) error(code syntax.DiagCode, pos, length int, msg string) {
	l.diags = append(l.diags, &syntax.Diagnostic{
		Code:    code,
		Message: msg,
		Pos:     pos,
		Length:  length,
	})
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c == '-' || c == '.'
}
