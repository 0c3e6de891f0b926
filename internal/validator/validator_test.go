package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuru-cli/nuru/internal/parser"
	"github.com/nuru-cli/nuru/internal/syntax"
)

func validate(t *testing.T, src string) []*syntax.Diagnostic {
	t.Helper()
	tree, diags := parser.Parse(src)
	require.Empty(t, diags, "pattern %q must be syntactically valid", src)
	return Validate(tree)
}

func codes(diags []*syntax.Diagnostic) []syntax.DiagCode {
	out := make([]syntax.DiagCode, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestValidate_ValidPatterns(t *testing.T) {
	valid := []string{
		"greet {name}",
		"delay {ms:int}",
		"deploy {env} --dry-run",
		"docker {*args}",
		"build --config,-c {mode}",
		"run -- {*rest}",
		"backup {src} {dst?}",
		"git commit --amend --no-edit",
	}
	for _, src := range valid {
		assert.Empty(t, validate(t, src), "pattern %q", src)
	}
}

func TestValidate_DuplicateParameterNames(t *testing.T) {
	diags := validate(t, "copy {a} {a}")
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.SemDuplicateParameterNames, diags[0].Code)
}

func TestValidate_DuplicateAcrossPositionalAndOption(t *testing.T) {
	diags := validate(t, "push {remote} --remote {remote}")
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.SemDuplicateParameterNames, diags[0].Code)
}

func TestValidate_ConflictingOptionalParameters(t *testing.T) {
	diags := validate(t, "cmd {a?} {b?}")
	assert.Contains(t, codes(diags), syntax.SemConflictingOptionalParameters)
}

func TestValidate_CatchAllNotAtEnd(t *testing.T) {
	diags := validate(t, "cmd {*a} {b}")
	assert.Contains(t, codes(diags), syntax.SemCatchAllNotAtEnd)
}

func TestValidate_LiteralAfterCatchAll(t *testing.T) {
	diags := validate(t, "cmd {*a} stop")
	assert.Contains(t, codes(diags), syntax.SemCatchAllNotAtEnd)
}

func TestValidate_OptionAfterCatchAllIsAllowed(t *testing.T) {
	diags := validate(t, "cmd {*a} --force")
	assert.Empty(t, diags)
}

func TestValidate_MixedCatchAllWithOptional(t *testing.T) {
	diags := validate(t, "cmd {a?} {*rest}")
	assert.Contains(t, codes(diags), syntax.SemMixedCatchAllWithOptional)
}

func TestValidate_DuplicateOptionAlias(t *testing.T) {
	diags := validate(t, "cmd --alpha,-a --all,-a")
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.SemDuplicateOptionAlias, diags[0].Code)
}

func TestValidate_OptionalBeforeRequired(t *testing.T) {
	diags := validate(t, "deploy {env?} {tag}")
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.SemOptionalBeforeRequired, diags[0].Code)
}

func TestValidate_LiteralResetsOptionalSequence(t *testing.T) {
	diags := validate(t, "cmd {a?} to {b}")
	assert.Empty(t, diags)
}

func TestValidate_EndOfOptionsWithoutCatchAll(t *testing.T) {
	diags := validate(t, "cmd --")
	assert.Contains(t, codes(diags), syntax.SemInvalidEndOfOptionsSeparator)
}

func TestValidate_EndOfOptionsFollowedByPlainParameter(t *testing.T) {
	diags := validate(t, "cmd -- {rest}")
	assert.Contains(t, codes(diags), syntax.SemInvalidEndOfOptionsSeparator)
}

func TestValidate_OptionsAfterEndOfOptions(t *testing.T) {
	diags := validate(t, "cmd -- {*rest} --force")
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.SemOptionsAfterEndOfOptions, diags[0].Code)
}

func TestValidate_DiagnosticCitesSegmentPosition(t *testing.T) {
	src := "copy {a} {a}"
	diags := validate(t, src)
	require.Len(t, diags, 1)
	assert.Equal(t, 9, diags[0].Pos)
	assert.Equal(t, 3, diags[0].Length)
}

// Running the validator twice on the same tree yields identical diagnostic
// lists, including order.
func TestValidate_Deterministic(t *testing.T) {
	tree, parseDiags := parser.Parse("cmd {a?} {a?} {*rest} {b}")
	require.Empty(t, parseDiags)

	first := Validate(tree)
	second := Validate(tree)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Code, second[i].Code)
		assert.Equal(t, first[i].Pos, second[i].Pos)
		assert.Equal(t, first[i].Message, second[i].Message)
	}
	assert.NotEmpty(t, first)
}
