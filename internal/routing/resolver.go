package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/nuru-cli/nuru/internal/compiler"
	"github.com/nuru-cli/nuru/internal/syntax"
	"github.com/nuru-cli/nuru/pkg/logging"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

// Resolution is a successful match: the winning endpoint, the raw extracted
// values keyed by parameter name, and how many argv tokens were consumed.
type Resolution struct {
	Endpoint  *Endpoint
	Extracted map[string]string
	Consumed  int
}

// Resolver walks the collection in specificity order and returns the first
// route that matches. It mutates none of its inputs; the extracted map is
// freshly allocated per attempt.
type Resolver struct {
	metrics *metrics.Registry
	logger  *logging.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMetrics attaches a metrics registry; resolve outcomes and durations
// are recorded on it.
func WithMetrics(m *metrics.Registry) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger attaches a logger; each failed route attempt is traced at
// debug level.
func WithLogger(l *logging.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve matches args against the collection with a plain resolver.
func Resolve(args []string, c *Collection) (*Resolution, *syntax.Diagnostic) {
	return NewResolver().Resolve(args, c)
}

// Resolve tries each endpoint in descending specificity; the first route
// that matches wins. When every route fails, the returned diagnostic is the
// failure from the attempt that consumed the deepest argv index.
func (r *Resolver) Resolve(args []string, c *Collection) (*Resolution, *syntax.Diagnostic) {
	start := time.Now()

	var best *attemptFailure
	for _, ep := range c.All() {
		extracted, consumed, fail := matchRoute(args, ep)
		if fail == nil {
			if r.metrics != nil {
				r.metrics.ObserveResolve(time.Since(start), true)
			}
			if r.logger != nil {
				r.logger.Debug("route matched", "pattern", ep.Pattern, "consumed", consumed)
			}
			return &Resolution{Endpoint: ep, Extracted: extracted, Consumed: consumed}, nil
		}
		if r.logger != nil {
			r.logger.Debug("route attempt failed",
				"pattern", ep.Pattern, "depth", fail.depth, "reason", fail.message)
		}
		if best == nil || fail.depth > best.depth {
			best = fail
		}
	}

	if r.metrics != nil {
		r.metrics.ObserveResolve(time.Since(start), false)
	}
	if best == nil {
		return nil, &syntax.Diagnostic{
			Code:    syntax.ResolveNoMatch,
			Message: "no route matches the given arguments",
		}
	}
	return nil, &syntax.Diagnostic{
		Code:    best.code,
		Message: best.message,
		Pos:     best.depth,
	}
}

// attemptFailure is the silent, control-flow-only failure of one route
// attempt. depth is the argv index the attempt reached.
type attemptFailure struct {
	code    syntax.DiagCode
	message string
	depth   int
}

func fail(code syntax.DiagCode, depth int, format string, args ...any) *attemptFailure {
	return &attemptFailure{code: code, message: fmt.Sprintf(format, args...), depth: depth}
}

// matchRoute runs one per-route match attempt per the resolution algorithm:
// positional matchers first, then the option walk, then the required-option
// audit.
func matchRoute(args []string, ep *Endpoint) (map[string]string, int, *attemptFailure) {
	route := ep.Compiled
	extracted := make(map[string]string)
	repeated := make(map[string][]string)
	consumed := make(map[*compiler.OptionMatcher]bool)
	i := 0

	// Positional walk.
	for _, m := range route.Positional {
		switch matcher := m.(type) {
		case *compiler.LiteralMatcher:
			if i >= len(args) || args[i] != matcher.Value {
				return nil, 0, fail(syntax.ResolveNoMatch, i, "expected %q", matcher.Value)
			}
			i++

		case *compiler.ParameterMatcher:
			if matcher.CatchAll {
				start := i
				for i < len(args) && !isRouteOption(args[i], route) {
					i++
				}
				extracted[matcher.Name] = strings.Join(args[start:i], " ")
				continue
			}
			if matcher.Optional {
				if i >= len(args) || isRouteOption(args[i], route) {
					continue
				}
				extracted[matcher.Name] = args[i]
				i++
				continue
			}
			if i >= len(args) {
				return nil, 0, fail(syntax.ResolveRequiredParamMissing, i,
					"missing value for parameter %q", matcher.Name)
			}
			extracted[matcher.Name] = args[i]
			i++
		}
	}

	// Option walk over the remaining tokens.
	for i < len(args) {
		tok := args[i]

		if tok == syntax.EndOfOptionsLiteral && route.HasEndOfOptions {
			extracted[route.CatchAllName] = strings.Join(args[i+1:], " ")
			i = len(args)
			break
		}

		form, inline, hasInline := splitInlineValue(tok)
		matcher := findOption(route, form)
		if matcher == nil {
			return nil, 0, fail(syntax.ResolveUnexpectedToken, i, "unexpected token %q", tok)
		}

		if matcher.ExpectsValue {
			var value string
			var hasValue bool
			switch {
			case hasInline:
				value, hasValue = inline, true
				i++
			case i+1 < len(args) && (!matcher.ParameterOptional || !isRouteOption(args[i+1], route)):
				value, hasValue = args[i+1], true
				i += 2
			case matcher.ParameterOptional:
				i++
			default:
				return nil, 0, fail(syntax.ResolveRequiredParamMissing, i,
					"option %q requires a value", optionDisplay(matcher))
			}
			if hasValue {
				if matcher.Repeated {
					repeated[matcher.ValueName()] = append(repeated[matcher.ValueName()], value)
				} else {
					extracted[matcher.ValueName()] = value
				}
			}
		} else {
			extracted[matcher.ValueName()] = "true"
			i++
		}
		consumed[matcher] = true
	}

	// Required-option audit.
	for _, m := range route.Options {
		if !m.OptionalFlag && !consumed[m] {
			return nil, 0, fail(syntax.ResolveRequiredOptionMissing, i,
				"required option %q missing for route %q", optionDisplay(m), ep.Pattern)
		}
	}

	for name, values := range repeated {
		extracted[name] = strings.Join(values, " ")
	}
	if route.HasCatchAll {
		if _, ok := extracted[route.CatchAllName]; !ok {
			extracted[route.CatchAllName] = ""
		}
	}
	return extracted, i, nil
}

// isRouteOption reports whether an argv token names an option this route
// declares. Options declared by other routes are not considered.
func isRouteOption(tok string, route *compiler.CompiledRoute) bool {
	if !strings.HasPrefix(tok, "-") {
		return false
	}
	form, _, _ := splitInlineValue(tok)
	return findOption(route, form) != nil
}

func findOption(route *compiler.CompiledRoute, form string) *compiler.OptionMatcher {
	for _, m := range route.Options {
		if m.Matches(form) {
			return m
		}
	}
	return nil
}

// splitInlineValue splits `--name=value` or `-n=value` on the first `=`.
func splitInlineValue(tok string) (form, value string, ok bool) {
	if idx := strings.IndexByte(tok, '='); idx >= 0 {
		return tok[:idx], tok[idx+1:], true
	}
	return tok, "", false
}

func optionDisplay(m *compiler.OptionMatcher) string {
	if m.LongForm != "" {
		return "--" + m.LongForm
	}
	return "-" + m.ShortForm
}
