package syntax

import "strings"

// Render rebuilds the canonical pattern text for a tree. Parsing the
// rendered text yields a structurally identical tree, modulo description
// whitespace, which makes Render the basis for round-trip checks.
func Render(p *Pattern) string {
	parts := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		parts = append(parts, renderSegment(seg))
	}
	return strings.Join(parts, " ")
}

func renderSegment(seg Segment) string {
	switch s := seg.(type) {
	case *Literal:
		return s.Value
	case *Parameter:
		return renderParameter(s)
	case *Option:
		return renderOption(s)
	default:
		return ""
	}
}

func renderParameter(p *Parameter) string {
	var b strings.Builder
	b.WriteByte('{')
	if p.CatchAll {
		b.WriteByte('*')
	}
	b.WriteString(p.Name)
	if p.TypeConstraint != "" {
		b.WriteByte(':')
		b.WriteString(p.TypeConstraint)
	}
	if p.Optional {
		b.WriteByte('?')
	}
	if p.Description != "" {
		b.WriteByte('|')
		b.WriteString(p.Description)
	}
	b.WriteByte('}')
	return b.String()
}

func renderOption(o *Option) string {
	var b strings.Builder
	if o.LongForm != "" {
		b.WriteString("--")
		b.WriteString(o.LongForm)
		if o.ShortForm != "" {
			b.WriteString(",-")
			b.WriteString(o.ShortForm)
		}
	} else {
		b.WriteByte('-')
		b.WriteString(o.ShortForm)
	}
	if o.OptionalFlag {
		b.WriteByte('?')
	}
	if o.Parameter != nil {
		b.WriteByte(' ')
		b.WriteString(renderParameter(o.Parameter))
	}
	if o.Repeated {
		b.WriteByte('*')
	}
	if o.Description != "" {
		b.WriteByte('|')
		b.WriteString(o.Description)
	}
	return b.String()
}
