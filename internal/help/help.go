// Package help synthesises usage text from an endpoint collection. The
// output is deterministic for a given collection and locale-independent.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nuru-cli/nuru/internal/compiler"
	"github.com/nuru-cli/nuru/internal/routing"
)

// Meta is optional application metadata shown in the header.
type Meta struct {
	Name        string
	Description string
	Version     string
}

// Render produces the multi-section usage text for a collection.
func Render(c *routing.Collection, meta Meta) string {
	var b strings.Builder

	if meta.Description != "" {
		b.WriteString(meta.Description)
		b.WriteString("\n\n")
	}

	app := meta.Name
	if app == "" {
		app = "app"
	}
	fmt.Fprintf(&b, "Usage: %s [command] [options]\n", app)

	commands := visible(c.Commands())
	options := visible(c.OptionRoutes())

	if len(commands) > 0 {
		b.WriteString("\nCommands:\n")
		writeSection(&b, commands)
	}
	if len(options) > 0 {
		b.WriteString("\nOptions:\n")
		writeSection(&b, options)
	}

	return b.String()
}

// visible filters out auto-help routes and sorts lexicographically by
// pattern source.
func visible(endpoints []*routing.Endpoint) []*routing.Endpoint {
	var out []*routing.Endpoint
	for _, ep := range endpoints {
		if isHelpRoute(ep.Pattern) {
			continue
		}
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

func isHelpRoute(pattern string) bool {
	return pattern == "help" || pattern == "--help" || strings.HasSuffix(pattern, " --help")
}

func writeSection(b *strings.Builder, endpoints []*routing.Endpoint) {
	displays := make([]string, len(endpoints))
	width := 0
	for i, ep := range endpoints {
		displays[i] = Display(ep.Compiled)
		if len(displays[i]) > width {
			width = len(displays[i])
		}
	}
	for i, ep := range endpoints {
		if ep.Description == "" {
			fmt.Fprintf(b, "  %s\n", displays[i])
			continue
		}
		fmt.Fprintf(b, "  %-*s  %s\n", width, displays[i], ep.Description)
	}
}

// Display rewrites a compiled route for help output: `{x}` becomes `<x>`,
// `{x?}` becomes `[x]`, `{*x}` becomes `<x>...`, and type constraints and
// descriptions are dropped.
func Display(route *compiler.CompiledRoute) string {
	var parts []string
	for _, m := range route.Positional {
		switch matcher := m.(type) {
		case *compiler.LiteralMatcher:
			parts = append(parts, matcher.Value)
		case *compiler.ParameterMatcher:
			parts = append(parts, displayParameter(matcher.Name, matcher.Optional, matcher.CatchAll))
		}
	}
	if route.HasEndOfOptions {
		parts = append(parts, "--", displayParameter(route.CatchAllName, false, true))
	}
	for _, opt := range route.Options {
		parts = append(parts, displayOption(opt))
	}
	return strings.Join(parts, " ")
}

func displayParameter(name string, optional, catchAll bool) string {
	switch {
	case catchAll:
		return "<" + name + ">..."
	case optional:
		return "[" + name + "]"
	default:
		return "<" + name + ">"
	}
}

func displayOption(opt *compiler.OptionMatcher) string {
	var b strings.Builder
	if opt.LongForm != "" {
		b.WriteString("--")
		b.WriteString(opt.LongForm)
		if opt.ShortForm != "" {
			b.WriteString(",-")
			b.WriteString(opt.ShortForm)
		}
	} else {
		b.WriteString("-")
		b.WriteString(opt.ShortForm)
	}
	if opt.ExpectsValue {
		b.WriteString(" ")
		b.WriteString(displayParameter(opt.ParameterName, opt.ParameterOptional, false))
	}
	return b.String()
}
