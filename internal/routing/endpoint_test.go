package routing

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuru-cli/nuru/internal/binding"
	"github.com/nuru-cli/nuru/internal/compiler"
	"github.com/nuru-cli/nuru/internal/syntax"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

func addRoute(t *testing.T, b *Builder, pattern string) {
	t.Helper()
	require.NoError(t, b.Add(pattern, binding.HandlerSig{}, "", compiler.KindQuery))
}

func TestBuilder_RejectsInvalidPattern(t *testing.T) {
	b := NewBuilder()
	err := b.Add("deploy {env?} {tag}", binding.HandlerSig{}, "", compiler.KindQuery)
	require.Error(t, err)

	var list *syntax.DiagnosticList
	require.ErrorAs(t, err, &list)
	require.Len(t, list.Diagnostics, 1)
	assert.Equal(t, syntax.SemOptionalBeforeRequired, list.Diagnostics[0].Code)

	// The failing endpoint was not added.
	assert.Equal(t, 0, b.Build().Len())
}

func TestBuilder_RejectsSyntaxError(t *testing.T) {
	b := NewBuilder()
	err := b.Add("deploy {env", binding.HandlerSig{}, "", compiler.KindQuery)
	require.Error(t, err)
}

func TestBuilder_SortsBySpecificityDescending(t *testing.T) {
	b := NewBuilder()
	addRoute(t, b, "git commit {*rest}")
	addRoute(t, b, "git commit --amend --no-edit")
	addRoute(t, b, "git {action}")

	c := b.Build()
	require.Equal(t, 3, c.Len())
	assert.Equal(t, "git commit --amend --no-edit", c.At(0).Pattern)
	assert.Equal(t, "git commit {*rest}", c.At(1).Pattern)
	assert.Equal(t, "git {action}", c.At(2).Pattern)
}

func TestBuilder_TiesKeepRegistrationOrder(t *testing.T) {
	b := NewBuilder()
	addRoute(t, b, "alpha {x}")
	addRoute(t, b, "beta {y}")

	c := b.Build()
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "alpha {x}", c.At(0).Pattern)
	assert.Equal(t, "beta {y}", c.At(1).Pattern)
}

func TestBuilder_FrozenAfterBuild(t *testing.T) {
	b := NewBuilder()
	addRoute(t, b, "greet {name}")
	b.Build()

	err := b.Add("other", binding.HandlerSig{}, "", compiler.KindQuery)
	require.Error(t, err)
}

func TestCollection_FilteredViews(t *testing.T) {
	b := NewBuilder()
	addRoute(t, b, "greet {name}")
	addRoute(t, b, "--version")
	addRoute(t, b, "deploy {env}")

	c := b.Build()
	commands := c.Commands()
	options := c.OptionRoutes()

	require.Len(t, commands, 2)
	require.Len(t, options, 1)
	assert.Equal(t, "--version", options[0].Pattern)
}

func TestBuilder_CarriesMetadata(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("migrate {db}", binding.HandlerSig{}, "Run migrations", compiler.KindIdempotentCommand))

	ep := b.Build().At(0)
	assert.Equal(t, "Run migrations", ep.Description)
	assert.Equal(t, compiler.KindIdempotentCommand, ep.Kind)
	assert.Equal(t, compiler.KindIdempotentCommand, ep.Compiled.Kind)

	require.NotNil(t, ep.Tree)
	assert.Equal(t, "migrate {db}", syntax.Render(ep.Tree))
}

func TestBuilder_RecordsPatternMetrics(t *testing.T) {
	reg := metrics.NewRegistry(metrics.DefaultConfig())
	b := NewBuilder(WithBuilderMetrics(reg))

	require.NoError(t, b.Add("greet {name}", binding.HandlerSig{}, "", compiler.KindQuery))
	require.Error(t, b.Add("deploy {env?} {tag}", binding.HandlerSig{}, "", compiler.KindQuery))
	require.Error(t, b.Add("deploy {env", binding.HandlerSig{}, "", compiler.KindQuery))

	// One compiled series plus one error series per failing stage
	// (semantic for the S006 pattern, lex for the unterminated brace).
	count, err := testutil.GatherAndCount(reg.Gatherer(),
		"nuru_patterns_compiled_total", "nuru_pattern_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
