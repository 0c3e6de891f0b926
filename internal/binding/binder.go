package binding

import (
	"fmt"
	"strings"

	"github.com/nuru-cli/nuru/internal/syntax"
	"github.com/nuru-cli/nuru/internal/terminal"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

// ParamSource tells the binder where a handler parameter's value comes
// from. The host marks this explicitly in the signature; the binder never
// guesses from type shape.
type ParamSource int

const (
	// FromArgs binds the parameter from the extracted-values map.
	FromArgs ParamSource = iota
	// FromHost injects a host-supplied value (the terminal sink, a service).
	FromHost
)

// TerminalType is the declared-type tag for the terminal sink injection
// rule: a FromHost parameter of this type receives the host's terminal.
const TerminalType = "terminal"

// Param describes one handler parameter.
type Param struct {
	Name       string
	Type       string // registry type tag, e.g. "int", "string"
	Slice      bool   // container-of-Type: split on single spaces and convert each element
	Nullable   bool
	Default    any
	HasDefault bool
	Source     ParamSource
}

// HandlerSig is the host-supplied description of a handler's parameters, in
// declaration order. The pipeline never inspects handler bodies.
type HandlerSig struct {
	Params []Param
}

// Host carries the values available for FromHost parameters.
type Host struct {
	Terminal terminal.Terminal
	Services map[string]any
}

// Binder converts extracted values into handler argument lists.
type Binder struct {
	metrics *metrics.Registry
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithMetrics attaches a metrics registry; every conversion attempt and
// failure is recorded on it.
func WithMetrics(m *metrics.Registry) BinderOption {
	return func(b *Binder) { b.metrics = m }
}

// NewBinder creates a Binder.
func NewBinder(opts ...BinderOption) *Binder {
	b := &Binder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind converts the extracted-values map with a plain binder.
func Bind(extracted map[string]string, sig HandlerSig, reg *Registry, host Host) ([]any, *syntax.Diagnostic) {
	return NewBinder().Bind(extracted, sig, reg, host)
}

// Bind converts the extracted-values map into the handler's ordered
// argument list, or returns a single typed diagnostic.
func (b *Binder) Bind(extracted map[string]string, sig HandlerSig, reg *Registry, host Host) ([]any, *syntax.Diagnostic) {
	args := make([]any, 0, len(sig.Params))
	for i, p := range sig.Params {
		if p.Source == FromHost {
			args = append(args, hostValue(p, host))
			continue
		}

		text, ok := extracted[p.Name]
		switch {
		case ok && p.Slice:
			elems, diag := b.convertSlice(text, p, reg, i)
			if diag != nil {
				return nil, diag
			}
			args = append(args, elems)
		case ok:
			v, err := reg.Convert(text, p.Type)
			b.recordConversion(p.Type, err == nil)
			if err != nil {
				return nil, conversionFailed(p, text, i, err)
			}
			args = append(args, v)
		case p.HasDefault:
			args = append(args, p.Default)
		case p.Nullable:
			args = append(args, nil)
		case p.Slice:
			// A missing container binds as empty rather than null.
			args = append(args, []any{})
		default:
			return nil, &syntax.Diagnostic{
				Code:    syntax.BindMissingParameter,
				Message: fmt.Sprintf("missing required parameter %q", p.Name),
				Pos:     i,
			}
		}
	}
	return args, nil
}

// convertSlice splits captured text on single spaces (the resolver joins
// catch-all and repeated-option tokens with single spaces) and converts
// each element. Empty capture yields an empty, non-nil slice.
func (b *Binder) convertSlice(text string, p Param, reg *Registry, index int) ([]any, *syntax.Diagnostic) {
	if text == "" {
		return []any{}, nil
	}
	parts := strings.Split(text, " ")
	elems := make([]any, 0, len(parts))
	for _, part := range parts {
		v, err := reg.Convert(part, p.Type)
		b.recordConversion(p.Type, err == nil)
		if err != nil {
			return nil, conversionFailed(p, part, index, err)
		}
		elems = append(elems, v)
	}
	return elems, nil
}

func (b *Binder) recordConversion(targetType string, ok bool) {
	if b.metrics != nil {
		b.metrics.RecordConversion(targetType, ok)
	}
}

func hostValue(p Param, host Host) any {
	if strings.EqualFold(p.Type, TerminalType) {
		return host.Terminal
	}
	if host.Services != nil {
		return host.Services[p.Name]
	}
	return nil
}

func conversionFailed(p Param, text string, index int, err error) *syntax.Diagnostic {
	return &syntax.Diagnostic{
		Code:    syntax.BindConversionFailed,
		Message: fmt.Sprintf("cannot convert %q to %s for parameter %q: %v", text, p.Type, p.Name, err),
		Pos:     index,
	}
}
