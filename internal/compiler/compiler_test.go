package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuru-cli/nuru/internal/parser"
)

func compile(t *testing.T, src string) *CompiledRoute {
	t.Helper()
	tree, diags := parser.Parse(src)
	require.Empty(t, diags, "pattern %q", src)
	return Compile(tree)
}

func TestCompile_SegmentSplit(t *testing.T) {
	route := compile(t, "deploy {env} --dry-run")

	require.Len(t, route.Positional, 2)
	lit, ok := route.Positional[0].(*LiteralMatcher)
	require.True(t, ok)
	assert.Equal(t, "deploy", lit.Value)

	param, ok := route.Positional[1].(*ParameterMatcher)
	require.True(t, ok)
	assert.Equal(t, "env", param.Name)

	require.Len(t, route.Options, 1)
	assert.Equal(t, "dry-run", route.Options[0].LongForm)
	assert.False(t, route.Options[0].ExpectsValue)
}

func TestCompile_PreservesPositionalOrder(t *testing.T) {
	route := compile(t, "copy {src} to {dst}")
	require.Len(t, route.Positional, 4)

	assert.Equal(t, "copy", route.Positional[0].(*LiteralMatcher).Value)
	assert.Equal(t, "src", route.Positional[1].(*ParameterMatcher).Name)
	assert.Equal(t, "to", route.Positional[2].(*LiteralMatcher).Value)
	assert.Equal(t, "dst", route.Positional[3].(*ParameterMatcher).Name)
}

func TestCompile_OptionWithValue(t *testing.T) {
	route := compile(t, "build --config,-c {mode:string}")
	require.Len(t, route.Options, 1)

	opt := route.Options[0]
	assert.Equal(t, "config", opt.LongForm)
	assert.Equal(t, "c", opt.ShortForm)
	assert.True(t, opt.ExpectsValue)
	assert.Equal(t, "mode", opt.ParameterName)
	assert.Equal(t, "string", opt.ParameterType)
}

func TestCompile_CatchAll(t *testing.T) {
	route := compile(t, "docker {*args}")
	assert.True(t, route.HasCatchAll)
	assert.Equal(t, "args", route.CatchAllName)
	assert.False(t, route.HasEndOfOptions)

	require.Len(t, route.Positional, 2)
	param := route.Positional[1].(*ParameterMatcher)
	assert.True(t, param.CatchAll)
}

func TestCompile_EndOfOptionsCatchAll(t *testing.T) {
	route := compile(t, "run -- {*rest}")
	assert.True(t, route.HasCatchAll)
	assert.True(t, route.HasEndOfOptions)
	assert.Equal(t, "rest", route.CatchAllName)

	// The `--` literal and the catch-all behind it are not positional.
	require.Len(t, route.Positional, 1)
	assert.Equal(t, "run", route.Positional[0].(*LiteralMatcher).Value)
}

func TestCompile_SpecificityOrderings(t *testing.T) {
	literalOnly := compile(t, "git commit")
	typedParam := compile(t, "git {action:string}")
	untypedParam := compile(t, "git {action}")
	optionalParam := compile(t, "git {action?}")
	catchAll := compile(t, "git {*action}")

	assert.Greater(t, literalOnly.Specificity, typedParam.Specificity)
	assert.Greater(t, typedParam.Specificity, untypedParam.Specificity)
	assert.Greater(t, untypedParam.Specificity, optionalParam.Specificity)
	assert.Greater(t, optionalParam.Specificity, catchAll.Specificity)
}

func TestCompile_RequiredOptionBeatsOptionalOption(t *testing.T) {
	required := compile(t, "push --force")
	optional := compile(t, "push --force?")
	assert.Greater(t, required.Specificity, optional.Specificity)
}

func TestCompile_OptionBonuses(t *testing.T) {
	base := compile(t, "push --force")
	withAlias := compile(t, "push --force,-f")
	withValue := compile(t, "push --force {level}")

	assert.Greater(t, withAlias.Specificity, base.Specificity)
	assert.Greater(t, withValue.Specificity, base.Specificity)
}

func TestCompile_ScenarioRanking(t *testing.T) {
	amend := compile(t, "git commit --amend --no-edit")
	rest := compile(t, "git commit {*rest}")
	assert.Greater(t, amend.Specificity, rest.Specificity)
}

func TestOptionMatcher_Matches(t *testing.T) {
	route := compile(t, "build --config,-c {mode}")
	opt := route.Options[0]

	assert.True(t, opt.Matches("--config"))
	assert.True(t, opt.Matches("-c"))
	assert.False(t, opt.Matches("--Config"))
	assert.False(t, opt.Matches("-config"))
	assert.False(t, opt.Matches("config"))
}

func TestOptionMatcher_ValueName(t *testing.T) {
	valued := compile(t, "build --config {mode}").Options[0]
	assert.Equal(t, "mode", valued.ValueName())

	flag := compile(t, "deploy --dry-run").Options[0]
	assert.Equal(t, "dry-run", flag.ValueName())
}

func TestParseMessageKind(t *testing.T) {
	kind, ok := ParseMessageKind("command")
	require.True(t, ok)
	assert.Equal(t, KindCommand, kind)

	kind, ok = ParseMessageKind("IDEMPOTENT-COMMAND")
	require.True(t, ok)
	assert.Equal(t, KindIdempotentCommand, kind)

	_, ok = ParseMessageKind("nope")
	assert.False(t, ok)
}
