package parser

import (
	"fmt"
	"strings"

	"github.com/nuru-cli/nuru/internal/syntax"
)

// Parse lexes and parses a pattern source into a tree. It never fails fast:
// the result is a partial tree plus the collected diagnostics, and callers
// reject the pattern when the list is non-empty.
func Parse(src string) (*syntax.Pattern, []*syntax.Diagnostic) {
	tokens, lexDiags := Lex(src)
	p := &parser{
		src:       src,
		tokens:    tokens,
		diags:     lexDiags,
		hadLexErr: len(lexDiags) > 0,
	}
	pattern := p.parsePattern()
	return pattern, p.diags
}

// parser is a recursive-descent parser with single-token lookahead.
type parser struct {
	src       string
	tokens    []syntax.Token
	pos       int
	diags     []*syntax.Diagnostic
	hadLexErr bool
}

func (p *parser) cur() syntax.Token { return p.tokens[p.pos] }

func (p *parser) advance() syntax.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) parsePattern() *syntax.Pattern {
	pattern := &syntax.Pattern{Source: p.src}
	for p.cur().Kind != syntax.TokenEOF {
		seg := p.parseSegment()
		if seg != nil {
			pattern.Segments = append(pattern.Segments, seg)
		}
	}
	return pattern
}

func (p *parser) parseSegment() syntax.Segment {
	switch tok := p.cur(); tok.Kind {
	case syntax.TokenLBrace:
		return p.parseParameter()
	case syntax.TokenLongDash, syntax.TokenShortDash:
		return p.parseOption()
	case syntax.TokenEndOfOptions:
		p.advance()
		return &syntax.Literal{Value: syntax.EndOfOptionsLiteral, Start: tok.Pos, Length: tok.Length}
	case syntax.TokenIdentifier:
		p.advance()
		return &syntax.Literal{Value: tok.Lexeme, Start: tok.Pos, Length: tok.Length}
	default:
		p.error(syntax.ParseUnexpectedToken, tok.Pos, tok.Length,
			fmt.Sprintf("unexpected %s at segment start", tok.Kind))
		p.recover()
		return nil
	}
}

// parseParameter parses `{ [*] name [:type] [?] [|desc] }`. The current
// token is the opening brace.
func (p *parser) parseParameter() *syntax.Parameter {
	open := p.advance()
	param := &syntax.Parameter{Start: open.Pos}

	if p.cur().Kind == syntax.TokenStar {
		p.advance()
		param.CatchAll = true
	}

	if p.cur().Kind == syntax.TokenIdentifier {
		param.Name = p.advance().Lexeme
	} else {
		p.error(syntax.ParseUnexpectedToken, p.cur().Pos, p.cur().Length,
			"expected parameter name")
		p.recoverToBrace()
		param.Length = p.lastEnd() - open.Pos
		return param
	}

	if p.cur().Kind == syntax.TokenColon {
		p.advance()
		if p.cur().Kind == syntax.TokenIdentifier {
			param.TypeConstraint = strings.ToLower(p.advance().Lexeme)
		} else {
			p.error(syntax.ParseInvalidConstraint, p.cur().Pos, p.cur().Length,
				"expected type name after ':'")
		}
	}

	if p.cur().Kind == syntax.TokenQuestion {
		p.advance()
		param.Optional = true
	}

	if p.cur().Kind == syntax.TokenPipe {
		p.advance()
		if p.cur().Kind == syntax.TokenDescription {
			param.Description = strings.TrimSpace(p.advance().Lexeme)
		}
	}

	if p.cur().Kind == syntax.TokenRBrace {
		end := p.advance()
		param.Length = end.Pos + end.Length - open.Pos
		return param
	}

	// The lexer already reported unterminated braces; only report here when
	// the brace body continued with something unexpected.
	if !(p.cur().Kind == syntax.TokenEOF && p.hadLexErr) {
		p.error(syntax.ParseMissingClosingBrace, open.Pos, 1, "missing '}'")
	}
	p.recoverToBrace()
	param.Length = p.lastEnd() - open.Pos
	return param
}

// parseOption parses `(--long|-s) [,(form)] [?] [{param}] [*] [|desc]`.
func (p *parser) parseOption() syntax.Segment {
	start := p.cur().Pos
	opt := &syntax.Option{Start: start}

	if !p.parseOptionForm(opt) {
		p.recover()
		return nil
	}

	if p.cur().Kind == syntax.TokenComma {
		p.advance()
		switch p.cur().Kind {
		case syntax.TokenLongDash, syntax.TokenShortDash:
			p.parseOptionForm(opt)
		default:
			p.error(syntax.ParseMalformedOption, p.cur().Pos, p.cur().Length,
				"expected option form after ','")
		}
	}

	if p.cur().Kind == syntax.TokenQuestion {
		p.advance()
		opt.OptionalFlag = true
	}

	if p.cur().Kind == syntax.TokenLBrace {
		opt.Parameter = p.parseParameter()
		if opt.Parameter != nil && opt.Parameter.CatchAll {
			p.error(syntax.ParseMalformedOption, opt.Parameter.Start, opt.Parameter.Length,
				"an option value cannot be a catch-all")
		}
	}

	if p.cur().Kind == syntax.TokenStar {
		p.advance()
		opt.Repeated = true
	}

	if p.cur().Kind == syntax.TokenPipe {
		p.advance()
		if p.cur().Kind == syntax.TokenDescription {
			opt.Description = strings.TrimSpace(p.advance().Lexeme)
		}
	}

	opt.Length = p.lastEnd() - start
	return opt
}

// parseOptionForm consumes one `--long` or `-s` form into opt, reporting a
// malformed option when the slot is already taken.
func (p *parser) parseOptionForm(opt *syntax.Option) bool {
	dash := p.advance()
	if p.cur().Kind != syntax.TokenIdentifier {
		p.error(syntax.ParseMalformedOption, dash.Pos, dash.Length, "expected option name")
		return false
	}
	name := p.advance().Lexeme
	if dash.Kind == syntax.TokenLongDash {
		if opt.LongForm != "" {
			p.error(syntax.ParseMalformedOption, dash.Pos, dash.Length,
				fmt.Sprintf("option already has a long form %q", opt.LongForm))
			return true
		}
		opt.LongForm = name
	} else {
		if opt.ShortForm != "" {
			p.error(syntax.ParseMalformedOption, dash.Pos, dash.Length,
				fmt.Sprintf("option already has a short form %q", opt.ShortForm))
			return true
		}
		opt.ShortForm = name
	}
	return true
}

// recover skips tokens until the next segment-starting token so a single
// malformed segment yields a single diagnostic.
func (p *parser) recover() {
	for {
		switch p.cur().Kind {
		case syntax.TokenEOF, syntax.TokenLBrace, syntax.TokenLongDash,
			syntax.TokenShortDash, syntax.TokenIdentifier, syntax.TokenEndOfOptions:
			return
		default:
			p.advance()
		}
	}
}

// recoverToBrace skips past the closing brace of the current parameter, or
// to end of input if none remains.
func (p *parser) recoverToBrace() {
	for {
		switch p.cur().Kind {
		case syntax.TokenRBrace:
			p.advance()
			return
		case syntax.TokenEOF:
			return
		default:
			p.advance()
		}
	}
}

// lastEnd returns the byte offset one past the most recently consumed token.
func (p *parser) lastEnd() int {
	if p.pos == 0 {
		return 0
	}
	prev := p.tokens[p.pos-1]
	return prev.Pos + prev.Length
}

func (p *parser) error(code syntax.DiagCode, pos, length int, msg string) {
	p.diags = append(p.diags, &syntax.Diagnostic{
		Code:    code,
		Message: msg,
		Pos:     pos,
		Length:  length,
	})
}
