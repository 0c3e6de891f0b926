// Package validator performs semantic validation of parsed route patterns.
// Each check yields zero or more diagnostics with stable S001–S008 codes;
// validation is side-effect-free and deterministic, so running it twice on
// the same tree yields identical lists.
package validator

import (
	"fmt"

	"github.com/nuru-cli/nuru/internal/syntax"
)

// Validator runs the semantic checks over a syntactically valid tree.
type Validator struct {
	diags []*syntax.Diagnostic
}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate runs all checks in order and returns the collected diagnostics.
// A nil or empty result means the tree is semantically valid.
func Validate(p *syntax.Pattern) []*syntax.Diagnostic {
	return New().Validate(p)
}

// Validate runs all checks in order and returns the collected diagnostics.
func (v *Validator) Validate(p *syntax.Pattern) []*syntax.Diagnostic {
	v.diags = nil
	v.checkDuplicateParameterNames(p)
	v.checkConflictingOptionalParameters(p)
	v.checkCatchAllAtEnd(p)
	v.checkMixedCatchAllWithOptional(p)
	v.checkDuplicateOptionAlias(p)
	v.checkOptionalBeforeRequired(p)
	v.checkEndOfOptionsSeparator(p)
	v.checkOptionsAfterEndOfOptions(p)
	return v.diags
}

// checkDuplicateParameterNames enforces S001: no two parameter-bearing
// segments (positional or option-value) share a name.
func (v *Validator) checkDuplicateParameterNames(p *syntax.Pattern) {
	seen := map[string]bool{}
	for _, param := range parameters(p) {
		if param.Name == "" {
			continue
		}
		if seen[param.Name] {
			v.add(syntax.SemDuplicateParameterNames, param,
				fmt.Sprintf("parameter name %q is declared more than once", param.Name))
			continue
		}
		seen[param.Name] = true
	}
}

// checkConflictingOptionalParameters enforces S002: no two immediately
// adjacent positional parameters are both optional.
func (v *Validator) checkConflictingOptionalParameters(p *syntax.Pattern) {
	var prev *syntax.Parameter
	for _, seg := range p.Segments {
		param, ok := seg.(*syntax.Parameter)
		if !ok {
			prev = nil
			continue
		}
		if prev != nil && prev.Optional && param.Optional {
			v.add(syntax.SemConflictingOptionalParameters, param,
				fmt.Sprintf("optional parameter %q directly follows optional parameter %q; the match would be ambiguous", param.Name, prev.Name))
		}
		prev = param
	}
}

// checkCatchAllAtEnd enforces S003: no positional segment follows a
// catch-all. Options and the `--` literal do not count.
func (v *Validator) checkCatchAllAtEnd(p *syntax.Pattern) {
	var catchAll *syntax.Parameter
	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case *syntax.Option:
			continue
		case *syntax.Literal:
			if s.IsEndOfOptions() {
				continue
			}
			if catchAll != nil {
				v.add(syntax.SemCatchAllNotAtEnd, s,
					fmt.Sprintf("literal %q follows catch-all %q", s.Value, catchAll.Name))
			}
		case *syntax.Parameter:
			if catchAll != nil {
				v.add(syntax.SemCatchAllNotAtEnd, s,
					fmt.Sprintf("parameter %q follows catch-all %q", s.Name, catchAll.Name))
			}
			if s.CatchAll {
				catchAll = s
			}
		}
	}
}

// checkMixedCatchAllWithOptional enforces S004: a tree with a catch-all may
// not also declare any optional positional parameter.
func (v *Validator) checkMixedCatchAllWithOptional(p *syntax.Pattern) {
	var catchAll *syntax.Parameter
	for _, seg := range p.Segments {
		if param, ok := seg.(*syntax.Parameter); ok && param.CatchAll {
			catchAll = param
			break
		}
	}
	if catchAll == nil {
		return
	}
	for _, seg := range p.Segments {
		if param, ok := seg.(*syntax.Parameter); ok && param.Optional && !param.CatchAll {
			v.add(syntax.SemMixedCatchAllWithOptional, param,
				fmt.Sprintf("optional parameter %q cannot be mixed with catch-all %q", param.Name, catchAll.Name))
		}
	}
}

// checkDuplicateOptionAlias enforces S005: a short form is used by at most
// one option.
func (v *Validator) checkDuplicateOptionAlias(p *syntax.Pattern) {
	seen := map[string]bool{}
	for _, seg := range p.Segments {
		opt, ok := seg.(*syntax.Option)
		if !ok || opt.ShortForm == "" {
			continue
		}
		if seen[opt.ShortForm] {
			v.add(syntax.SemDuplicateOptionAlias, opt,
				fmt.Sprintf("short form %q is used by more than one option", "-"+opt.ShortForm))
			continue
		}
		seen[opt.ShortForm] = true
	}
}

// checkOptionalBeforeRequired enforces S006: no required positional
// parameter follows an optional positional parameter. Intervening options
// and literals reset the sequence.
func (v *Validator) checkOptionalBeforeRequired(p *syntax.Pattern) {
	var optional *syntax.Parameter
	for _, seg := range p.Segments {
		param, ok := seg.(*syntax.Parameter)
		if !ok {
			optional = nil
			continue
		}
		if param.CatchAll {
			continue
		}
		if param.Optional {
			optional = param
			continue
		}
		if optional != nil {
			v.add(syntax.SemOptionalBeforeRequired, param,
				fmt.Sprintf("required parameter %q follows optional parameter %q", param.Name, optional.Name))
		}
	}
}

// checkEndOfOptionsSeparator enforces S007: `--` as a literal must be
// followed by exactly one catch-all parameter and nothing else.
func (v *Validator) checkEndOfOptionsSeparator(p *syntax.Pattern) {
	for i, seg := range p.Segments {
		lit, ok := seg.(*syntax.Literal)
		if !ok || !lit.IsEndOfOptions() {
			continue
		}
		rest := p.Segments[i+1:]
		if len(rest) == 0 {
			v.add(syntax.SemInvalidEndOfOptionsSeparator, lit,
				"'--' must be followed by a catch-all parameter")
			return
		}
		first, ok := rest[0].(*syntax.Parameter)
		if !ok || !first.CatchAll {
			v.add(syntax.SemInvalidEndOfOptionsSeparator, rest[0],
				"'--' must be followed by a catch-all parameter")
			return
		}
		for _, extra := range rest[1:] {
			if _, isOpt := extra.(*syntax.Option); isOpt {
				continue // reported by S008
			}
			v.add(syntax.SemInvalidEndOfOptionsSeparator, extra,
				"nothing may follow the catch-all after '--'")
		}
		return
	}
}

// checkOptionsAfterEndOfOptions enforces S008: no option segment may appear
// after the `--` literal.
func (v *Validator) checkOptionsAfterEndOfOptions(p *syntax.Pattern) {
	afterSeparator := false
	for _, seg := range p.Segments {
		if lit, ok := seg.(*syntax.Literal); ok && lit.IsEndOfOptions() {
			afterSeparator = true
			continue
		}
		if opt, ok := seg.(*syntax.Option); ok && afterSeparator {
			v.add(syntax.SemOptionsAfterEndOfOptions, opt,
				fmt.Sprintf("option %q appears after '--'", "--"+opt.Name()))
		}
	}
}

// parameters returns every parameter-bearing segment in source order:
// positional parameters and option values.
func parameters(p *syntax.Pattern) []*syntax.Parameter {
	var params []*syntax.Parameter
	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case *syntax.Parameter:
			params = append(params, s)
		case *syntax.Option:
			if s.Parameter != nil {
				params = append(params, s.Parameter)
			}
		}
	}
	return params
}

func (v *Validator) add(code syntax.DiagCode, seg syntax.Segment, msg string) {
	v.diags = append(v.diags, &syntax.Diagnostic{
		Code:    code,
		Message: msg,
		Pos:     seg.Pos(),
		Length:  seg.Len(),
	})
}
