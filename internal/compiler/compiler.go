// Package compiler lowers a validated pattern tree to an ordered matcher
// program plus a specificity score. Compilation is total over validated
// trees: it cannot fail.
package compiler

import (
	"fmt"
	"strings"

	"github.com/nuru-cli/nuru/internal/syntax"
)

// Segment weights for the specificity score. The exact values are free as
// long as literals > required parameters > optional parameters > catch-all
// and required options > optional options.
const (
	weightLiteral       = 100
	weightTypedParam    = 50
	weightUntypedParam  = 40
	weightOptionalParam = 20
	weightCatchAll      = 1
	weightOption        = 30
	weightShortAlias    = 5
	weightOptionValue   = 10
	weightOptionalFlag  = 10
)

// MessageKind classifies what a route's handler does. It is host-supplied
// metadata carried through compilation for dispatch policy.
type MessageKind int

const (
	// KindQuery is a read-only invocation.
	KindQuery MessageKind = iota
	// KindCommand mutates state.
	KindCommand
	// KindIdempotentCommand mutates state but may be retried safely.
	KindIdempotentCommand
)

var messageKindNames = map[MessageKind]string{
	KindQuery:             "query",
	KindCommand:           "command",
	KindIdempotentCommand: "idempotent-command",
}

// String returns the string representation of the message kind.
func (k MessageKind) String() string {
	if name, ok := messageKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UnknownKind(%d)", int(k))
}

// ParseMessageKind maps a kind name back to its enum value.
func ParseMessageKind(name string) (MessageKind, bool) {
	for k, n := range messageKindNames {
		if n == strings.ToLower(name) {
			return k, true
		}
	}
	return KindQuery, false
}

// RouteMatcher is one step of the positional matcher program: either a
// LiteralMatcher or a ParameterMatcher.
type RouteMatcher interface {
	matcherNode()
}

// LiteralMatcher matches one argv token by byte equality.
type LiteralMatcher struct {
	Value string
}

func (*LiteralMatcher) matcherNode() {}

// ParameterMatcher captures one argv token (or, for a catch-all, the
// remaining positional tokens) under Name.
type ParameterMatcher struct {
	Name           string
	TypeConstraint string
	Optional       bool
	CatchAll       bool
}

func (*ParameterMatcher) matcherNode() {}

// OptionMatcher matches a long or short option form and optionally consumes
// a value token.
type OptionMatcher struct {
	LongForm          string
	ShortForm         string
	ParameterName     string
	ExpectsValue      bool
	ParameterType     string
	ParameterOptional bool
	OptionalFlag      bool
	Repeated          bool
	Description       string
}

// Name returns the long form when present, otherwise the short form.
func (m *OptionMatcher) Name() string {
	if m.LongForm != "" {
		return m.LongForm
	}
	return m.ShortForm
}

// ValueName returns the key extracted values are recorded under: the value
// parameter's name for valued options, the option name for bare flags.
func (m *OptionMatcher) ValueName() string {
	if m.ParameterName != "" {
		return m.ParameterName
	}
	return m.Name()
}

// Matches reports whether an argv token (already split before any `=`)
// names this option. Comparison is case-sensitive.
func (m *OptionMatcher) Matches(form string) bool {
	if m.LongForm != "" && form == "--"+m.LongForm {
		return true
	}
	return m.ShortForm != "" && form == "-"+m.ShortForm
}

// CompiledRoute is the matcher program for one route.
type CompiledRoute struct {
	Positional []RouteMatcher
	Options    []*OptionMatcher

	// HasCatchAll is set for both plain and end-of-options catch-alls;
	// HasEndOfOptions is set only when the catch-all was declared behind the
	// `--` literal, in which case it does not appear in Positional.
	HasCatchAll     bool
	CatchAllName    string
	HasEndOfOptions bool

	Specificity int
	Kind        MessageKind
}

// Compile lowers a validated tree. Literal and parameter segments become
// positional matchers in source order; option segments become option
// matchers; the `--` literal is dropped and the catch-all behind it is
// recorded on the route itself.
func Compile(p *syntax.Pattern) *CompiledRoute {
	route := &CompiledRoute{}
	afterSeparator := false

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case *syntax.Literal:
			if s.IsEndOfOptions() {
				afterSeparator = true
				continue
			}
			route.Positional = append(route.Positional, &LiteralMatcher{Value: s.Value})
			route.Specificity += weightLiteral

		case *syntax.Parameter:
			route.Specificity += parameterWeight(s)
			if s.CatchAll {
				route.HasCatchAll = true
				route.CatchAllName = s.Name
				if afterSeparator {
					route.HasEndOfOptions = true
					continue
				}
			}
			route.Positional = append(route.Positional, &ParameterMatcher{
				Name:           s.Name,
				TypeConstraint: s.TypeConstraint,
				Optional:       s.Optional,
				CatchAll:       s.CatchAll,
			})

		case *syntax.Option:
			route.Options = append(route.Options, compileOption(s))
			route.Specificity += optionWeight(s)
		}
	}
	return route
}

func compileOption(o *syntax.Option) *OptionMatcher {
	m := &OptionMatcher{
		LongForm:     o.LongForm,
		ShortForm:    o.ShortForm,
		OptionalFlag: o.OptionalFlag,
		Repeated:     o.Repeated,
		Description:  o.Description,
	}
	if o.Parameter != nil {
		m.ParameterName = o.Parameter.Name
		m.ExpectsValue = true
		m.ParameterType = o.Parameter.TypeConstraint
		m.ParameterOptional = o.Parameter.Optional
	}
	return m
}

func parameterWeight(p *syntax.Parameter) int {
	switch {
	case p.CatchAll:
		return weightCatchAll
	case p.Optional:
		return weightOptionalParam
	case p.TypeConstraint != "":
		return weightTypedParam
	default:
		return weightUntypedParam
	}
}

func optionWeight(o *syntax.Option) int {
	if o.OptionalFlag {
		return weightOptionalFlag
	}
	w := weightOption
	if o.LongForm != "" && o.ShortForm != "" {
		w += weightShortAlias
	}
	if o.Parameter != nil && !o.Parameter.Optional {
		w += weightOptionValue
	}
	return w
}
