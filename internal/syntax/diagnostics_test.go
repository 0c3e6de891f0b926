package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagCode_Kind(t *testing.T) {
	assert.Equal(t, "Lex", LexUnterminatedBrace.Kind())
	assert.Equal(t, "Parse", ParseMalformedOption.Kind())
	assert.Equal(t, "Semantic", SemCatchAllNotAtEnd.Kind())
	assert.Equal(t, "Resolve", ResolveNoMatch.Kind())
	assert.Equal(t, "Binding", BindConversionFailed.Kind())
}

func TestDiagnostic_Format(t *testing.T) {
	d := &Diagnostic{
		Code:    SemOptionalBeforeRequired,
		Message: "required parameter \"tag\" follows optional parameter \"env\"",
		Pos:     13,
		Length:  5,
	}
	assert.Equal(t,
		`Semantic Error at position 13: required parameter "tag" follows optional parameter "env"`,
		d.Format())
	assert.Equal(t, d.Format(), d.Error())
}

func TestDiagnostic_FormatWithSuggestion(t *testing.T) {
	d := &Diagnostic{
		Code:       ParseMissingClosingBrace,
		Message:    "missing '}'",
		Pos:        4,
		Suggestion: "close the parameter with '}'",
	}
	assert.Equal(t, "Parse Error at position 4: missing '}'\n    close the parameter with '}'", d.Format())
}

func TestDiagnosticList(t *testing.T) {
	list := &DiagnosticList{}
	assert.False(t, list.HasErrors())
	assert.Equal(t, "no diagnostics", list.Error())

	list.Add(&Diagnostic{Code: LexUnexpectedChar, Message: "unexpected character '@'", Pos: 2})
	require.True(t, list.HasErrors())
	assert.Equal(t, "Lex Error at position 2: unexpected character '@'", list.Error())

	list.Add(&Diagnostic{Code: ParseMalformedOption, Message: "expected option name", Pos: 5})
	assert.Contains(t, list.Error(), "2 errors:")
	assert.Len(t, list.Unwrap(), 2)
}

func TestRender_ManualTree(t *testing.T) {
	tree := &Pattern{Segments: []Segment{
		&Literal{Value: "deploy"},
		&Parameter{Name: "env", TypeConstraint: "string", Optional: true},
		&Option{LongForm: "dry-run", ShortForm: "n", OptionalFlag: true},
		&Option{LongForm: "tag", Parameter: &Parameter{Name: "t"}, Repeated: true},
	}}
	assert.Equal(t, "deploy {env:string?} --dry-run,-n? --tag {t}*", Render(tree))
}

func TestRender_EndOfOptions(t *testing.T) {
	tree := &Pattern{Segments: []Segment{
		&Literal{Value: "exec"},
		&Literal{Value: EndOfOptionsLiteral},
		&Parameter{Name: "cmd", CatchAll: true},
	}}
	assert.Equal(t, "exec -- {*cmd}", Render(tree))
}

func TestTokenKind_String(t *testing.T) {
	assert.Equal(t, "Identifier", TokenIdentifier.String())
	assert.Equal(t, "EndOfOptions", TokenEndOfOptions.String())
	assert.Equal(t, "EOF", TokenEOF.String())
}
