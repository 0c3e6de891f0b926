// Package routing holds the endpoint collection and the argument resolver.
// Endpoints are registered through a Builder, compiled eagerly, and frozen
// into a Collection sorted by descending specificity; resolution walks that
// order and the first route to match wins.
package routing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nuru-cli/nuru/internal/binding"
	"github.com/nuru-cli/nuru/internal/compiler"
	"github.com/nuru-cli/nuru/internal/parser"
	"github.com/nuru-cli/nuru/internal/syntax"
	"github.com/nuru-cli/nuru/internal/validator"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

// Endpoint is a compiled route plus the host-supplied handler signature and
// metadata. The parsed tree is retained so hosts can re-render the pattern
// without running the parser again.
type Endpoint struct {
	Pattern     string
	Tree        *syntax.Pattern
	Compiled    *compiler.CompiledRoute
	Signature   binding.HandlerSig
	Description string
	Kind        compiler.MessageKind

	// order is the registration index, the tie-breaker for equal specificity.
	order int
}

// Builder accumulates endpoints before the collection is frozen. It is the
// single writer in the collection's lifecycle; after Build the endpoints
// are shared read-only.
type Builder struct {
	endpoints []*Endpoint
	metrics   *metrics.Registry
	built     bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderMetrics attaches a metrics registry; compiled and rejected
// patterns are recorded on it, the latter by failing stage.
func WithBuilderMetrics(m *metrics.Registry) BuilderOption {
	return func(b *Builder) { b.metrics = m }
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add parses, validates, and compiles a pattern, then appends the endpoint.
// On failure the endpoint is not added and the returned error is the
// diagnostic list from the failing stage.
func (b *Builder) Add(pattern string, sig binding.HandlerSig, description string, kind compiler.MessageKind) error {
	if b.built {
		return fmt.Errorf("collection already built; no further routes may be added")
	}

	tree, diags := parser.Parse(pattern)
	if len(diags) == 0 {
		diags = validator.Validate(tree)
	}
	if len(diags) > 0 {
		if b.metrics != nil {
			b.metrics.RecordPatternError(strings.ToLower(diags[0].Code.Kind()))
		}
		return &syntax.DiagnosticList{Diagnostics: diags}
	}

	compiled := compiler.Compile(tree)
	compiled.Kind = kind
	if b.metrics != nil {
		b.metrics.RecordPatternCompiled()
	}
	b.endpoints = append(b.endpoints, &Endpoint{
		Pattern:     pattern,
		Tree:        tree,
		Compiled:    compiled,
		Signature:   sig,
		Description: description,
		Kind:        kind,
		order:       len(b.endpoints),
	})
	return nil
}

// Build sorts the endpoints by descending specificity, breaking ties by
// registration order, and freezes the builder.
func (b *Builder) Build() *Collection {
	b.built = true
	sorted := make([]*Endpoint, len(b.endpoints))
	copy(sorted, b.endpoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Compiled.Specificity != sorted[j].Compiled.Specificity {
			return sorted[i].Compiled.Specificity > sorted[j].Compiled.Specificity
		}
		return sorted[i].order < sorted[j].order
	})
	return &Collection{endpoints: sorted}
}

// Collection is the frozen, specificity-ordered endpoint sequence. It is
// observably immutable after Build and may be read concurrently.
type Collection struct {
	endpoints []*Endpoint
}

// Len returns the number of endpoints.
func (c *Collection) Len() int { return len(c.endpoints) }

// At returns the endpoint at index i in specificity order.
func (c *Collection) At(i int) *Endpoint { return c.endpoints[i] }

// All returns the endpoints in specificity order. The slice is shared;
// callers must not mutate it.
func (c *Collection) All() []*Endpoint { return c.endpoints }

// Commands returns the endpoints whose pattern does not start with an
// option form, the view the help renderer lists under "Commands".
func (c *Collection) Commands() []*Endpoint {
	var out []*Endpoint
	for _, ep := range c.endpoints {
		if !isOptionPattern(ep.Pattern) {
			out = append(out, ep)
		}
	}
	return out
}

// OptionRoutes returns the endpoints whose pattern starts with an option
// form, the view the help renderer lists under "Options".
func (c *Collection) OptionRoutes() []*Endpoint {
	var out []*Endpoint
	for _, ep := range c.endpoints {
		if isOptionPattern(ep.Pattern) {
			out = append(out, ep)
		}
	}
	return out
}

func isOptionPattern(pattern string) bool {
	return len(pattern) > 0 && pattern[0] == '-'
}
