package syntax

import (
	"fmt"
	"strings"
)

// EndOfOptionsLiteral is the sentinel literal value that forces all
// subsequent argv tokens into the catch-all regardless of their prefix.
const EndOfOptionsLiteral = "--"

// Segment is the interface implemented by the three pattern tree variants:
// Literal, Parameter, and Option. Segment order in the tree mirrors textual
// order in the source.
type Segment interface {
	// Pos returns the byte offset of the segment in the pattern source.
	Pos() int
	// Len returns the byte length of the segment in the pattern source.
	Len() int
	// String returns a human-readable representation for debugging.
	String() string
	segmentNode()
}

// Pattern is the abstract tree for one route pattern: an ordered sequence
// of segments plus the source text they were parsed from.
type Pattern struct {
	Source   string
	Segments []Segment
}

// String returns a human-readable representation for debugging.
func (p *Pattern) String() string {
	var b strings.Builder
	b.WriteString("Pattern{\n")
	for _, seg := range p.Segments {
		b.WriteString("  ")
		b.WriteString(seg.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// Literal matches one input token by string equality. The sentinel value
// `--` additionally signals end-of-options.
type Literal struct {
	Value  string
	Start  int
	Length int
}

func (l *Literal) Pos() int     { return l.Start }
func (l *Literal) Len() int     { return l.Length }
func (l *Literal) segmentNode() {}

// IsEndOfOptions reports whether this literal is the `--` separator.
func (l *Literal) IsEndOfOptions() bool { return l.Value == EndOfOptionsLiteral }

func (l *Literal) String() string {
	return fmt.Sprintf("Literal{%q}", l.Value)
}

// Parameter captures one input token (or, for a catch-all, all remaining
// positional tokens) under Name.
type Parameter struct {
	Name           string
	TypeConstraint string // lowercase type tag, empty when untyped
	Description    string
	Optional       bool
	CatchAll       bool
	Start          int
	Length         int
}

func (p *Parameter) Pos() int     { return p.Start }
func (p *Parameter) Len() int     { return p.Length }
func (p *Parameter) segmentNode() {}

func (p *Parameter) String() string {
	var flags []string
	if p.CatchAll {
		flags = append(flags, "catch-all")
	}
	if p.Optional {
		flags = append(flags, "optional")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " " + strings.Join(flags, ",")
	}
	if p.TypeConstraint != "" {
		return fmt.Sprintf("Parameter{%s:%s%s}", p.Name, p.TypeConstraint, suffix)
	}
	return fmt.Sprintf("Parameter{%s%s}", p.Name, suffix)
}

// Option is a named flag, optionally carrying a value parameter. At least
// one of LongForm and ShortForm is present; forms are stored without their
// leading dashes.
type Option struct {
	LongForm     string
	ShortForm    string
	Parameter    *Parameter // nil for a bare flag
	Description  string
	OptionalFlag bool
	Repeated     bool
	Start        int
	Length       int
}

func (o *Option) Pos() int     { return o.Start }
func (o *Option) Len() int     { return o.Length }
func (o *Option) segmentNode() {}

// Name returns the long form when present, otherwise the short form.
func (o *Option) Name() string {
	if o.LongForm != "" {
		return o.LongForm
	}
	return o.ShortForm
}

// ExpectsValue reports whether the option takes a value parameter.
func (o *Option) ExpectsValue() bool { return o.Parameter != nil }

func (o *Option) String() string {
	forms := ""
	if o.LongForm != "" {
		forms = "--" + o.LongForm
	}
	if o.ShortForm != "" {
		if forms != "" {
			forms += ","
		}
		forms += "-" + o.ShortForm
	}
	if o.Parameter != nil {
		return fmt.Sprintf("Option{%s %s}", forms, o.Parameter.String())
	}
	return fmt.Sprintf("Option{%s}", forms)
}
