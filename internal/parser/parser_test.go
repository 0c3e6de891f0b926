package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuru-cli/nuru/internal/syntax"
)

func mustParse(t *testing.T, src string) *syntax.Pattern {
	t.Helper()
	tree, diags := Parse(src)
	require.Empty(t, diags, "pattern %q", src)
	return tree
}

func TestParse_LiteralsAndParameter(t *testing.T) {
	tree := mustParse(t, "greet {name}")
	require.Len(t, tree.Segments, 2)

	lit, ok := tree.Segments[0].(*syntax.Literal)
	require.True(t, ok)
	assert.Equal(t, "greet", lit.Value)

	param, ok := tree.Segments[1].(*syntax.Parameter)
	require.True(t, ok)
	assert.Equal(t, "name", param.Name)
	assert.False(t, param.Optional)
	assert.False(t, param.CatchAll)
	assert.Empty(t, param.TypeConstraint)
}

func TestParse_TypedParameter(t *testing.T) {
	tree := mustParse(t, "delay {ms:int}")
	param := tree.Segments[1].(*syntax.Parameter)
	assert.Equal(t, "ms", param.Name)
	assert.Equal(t, "int", param.TypeConstraint)
}

func TestParse_TypeConstraintIsLowercased(t *testing.T) {
	tree := mustParse(t, "delay {ms:Int}")
	param := tree.Segments[1].(*syntax.Parameter)
	assert.Equal(t, "int", param.TypeConstraint)
}

func TestParse_OptionalTypedParameterWithDescription(t *testing.T) {
	tree := mustParse(t, "wait {secs:int?|Seconds to wait}")
	param := tree.Segments[1].(*syntax.Parameter)
	assert.Equal(t, "secs", param.Name)
	assert.Equal(t, "int", param.TypeConstraint)
	assert.True(t, param.Optional)
	assert.Equal(t, "Seconds to wait", param.Description)
}

func TestParse_CatchAll(t *testing.T) {
	tree := mustParse(t, "docker {*args}")
	param := tree.Segments[1].(*syntax.Parameter)
	assert.Equal(t, "args", param.Name)
	assert.True(t, param.CatchAll)
}

func TestParse_BareFlag(t *testing.T) {
	tree := mustParse(t, "deploy {env} --dry-run")
	require.Len(t, tree.Segments, 3)

	opt, ok := tree.Segments[2].(*syntax.Option)
	require.True(t, ok)
	assert.Equal(t, "dry-run", opt.LongForm)
	assert.Empty(t, opt.ShortForm)
	assert.Nil(t, opt.Parameter)
	assert.False(t, opt.OptionalFlag)
}

func TestParse_OptionAliasWithValue(t *testing.T) {
	tree := mustParse(t, "build --config,-c {mode}")
	opt := tree.Segments[1].(*syntax.Option)
	assert.Equal(t, "config", opt.LongForm)
	assert.Equal(t, "c", opt.ShortForm)
	require.NotNil(t, opt.Parameter)
	assert.Equal(t, "mode", opt.Parameter.Name)
}

func TestParse_AliasOrderReversed(t *testing.T) {
	tree := mustParse(t, "build -c,--config {mode}")
	opt := tree.Segments[1].(*syntax.Option)
	assert.Equal(t, "config", opt.LongForm)
	assert.Equal(t, "c", opt.ShortForm)
}

func TestParse_OptionalFlag(t *testing.T) {
	tree := mustParse(t, "push --force?")
	opt := tree.Segments[1].(*syntax.Option)
	assert.Equal(t, "force", opt.LongForm)
	assert.True(t, opt.OptionalFlag)
}

func TestParse_RepeatedOption(t *testing.T) {
	tree := mustParse(t, "tag --tag {t}*")
	opt := tree.Segments[1].(*syntax.Option)
	assert.True(t, opt.Repeated)
	require.NotNil(t, opt.Parameter)
	assert.Equal(t, "t", opt.Parameter.Name)
}

func TestParse_OptionDescription(t *testing.T) {
	tree := mustParse(t, "deploy --dry-run|Simulate the deployment")
	opt := tree.Segments[1].(*syntax.Option)
	assert.Equal(t, "Simulate the deployment", opt.Description)
}

func TestParse_ShortOnlyOptionWithValue(t *testing.T) {
	tree := mustParse(t, "commit -m {message}")
	opt := tree.Segments[1].(*syntax.Option)
	assert.Empty(t, opt.LongForm)
	assert.Equal(t, "m", opt.ShortForm)
	require.NotNil(t, opt.Parameter)
	assert.Equal(t, "message", opt.Parameter.Name)
}

func TestParse_EndOfOptionsLiteral(t *testing.T) {
	tree := mustParse(t, "run -- {*rest}")
	require.Len(t, tree.Segments, 3)

	lit, ok := tree.Segments[1].(*syntax.Literal)
	require.True(t, ok)
	assert.True(t, lit.IsEndOfOptions())

	param := tree.Segments[2].(*syntax.Parameter)
	assert.True(t, param.CatchAll)
}

func TestParse_SegmentPositionsMirrorSource(t *testing.T) {
	src := "deploy {env} --dry-run"
	tree := mustParse(t, src)

	require.Len(t, tree.Segments, 3)
	assert.Equal(t, 0, tree.Segments[0].Pos())
	assert.Equal(t, 7, tree.Segments[1].Pos())
	assert.Equal(t, 5, tree.Segments[1].Len())
	assert.Equal(t, 13, tree.Segments[2].Pos())
}

func TestParse_MissingParameterName(t *testing.T) {
	_, diags := Parse("cmd {}")
	require.NotEmpty(t, diags)
}

func TestParse_CatchAllOptionValueRejected(t *testing.T) {
	_, diags := Parse("cmd --files {*f}")
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == syntax.ParseMalformedOption {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParse_DuplicateLongForm(t *testing.T) {
	_, diags := Parse("cmd --alpha,--beta")
	require.NotEmpty(t, diags)
	assert.Equal(t, syntax.ParseMalformedOption, diags[0].Code)
}

func TestParse_RecoversAndContinues(t *testing.T) {
	// The malformed middle segment produces a diagnostic but parsing
	// continues with the rest of the pattern.
	tree, diags := Parse("first {} last")
	require.NotEmpty(t, diags)

	var literals []string
	for _, seg := range tree.Segments {
		if lit, ok := seg.(*syntax.Literal); ok {
			literals = append(literals, lit.Value)
		}
	}
	assert.Contains(t, literals, "first")
	assert.Contains(t, literals, "last")
}

func TestParse_NeverPanicsOnMalformedInput(t *testing.T) {
	inputs := []string{
		"", "{", "}", "{}", "{?}", "{:int}", "--", "-", ",", "|", "?", "*",
		"cmd {a", "cmd a}", "cmd --,", "cmd --x,", "{a:}", "{a|}", "--|x",
	}
	for _, src := range inputs {
		assert.NotPanics(t, func() { Parse(src) }, "input %q", src)
	}
}

// Re-parsing the rendered form of a valid tree yields the same rendered
// form: the canonical text is a fixed point.
func TestParse_RenderRoundTrip(t *testing.T) {
	sources := []string{
		"greet {name}",
		"delay {ms:int}",
		"deploy {env} --dry-run",
		"build --config,-c {mode}",
		"docker {*args}",
		"run -- {*rest}",
		"backup {src} --dest,-d {path?} --compress?",
		"tag --tag {t}*",
		"wait {secs:int?|Seconds to wait}",
	}
	for _, src := range sources {
		first := mustParse(t, src)
		canonical := syntax.Render(first)
		second := mustParse(t, canonical)
		assert.Equal(t, canonical, syntax.Render(second), "source %q", src)
		assert.Len(t, second.Segments, len(first.Segments), "source %q", src)
	}
}
