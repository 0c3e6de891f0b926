// Package manifest loads declarative route manifests. A manifest names the
// application and lists route patterns with their metadata, so a host can
// register an entire command surface from one file:
//
//	app "greet-tool" {
//	    version "1.0.0"
//	    description "Greeting demo"
//	}
//
//	route "greet {name}" {
//	    description "Say hello"
//	    handler "greet"
//	    kind query
//	}
//
// Every route body is run through the full pipeline (parse, validate,
// compile) when the collection is built; Load does not check patterns, and
// Collection fails with the collected diagnostics if any pattern is
// ill-formed.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/go-playground/validator/v10"

	"github.com/nuru-cli/nuru/internal/binding"
	"github.com/nuru-cli/nuru/internal/compiler"
	"github.com/nuru-cli/nuru/internal/routing"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

// =============================================================================
// Lexer Definition
// =============================================================================

var manifestLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Whitespace and comments
		{Name: "whitespace", Pattern: `[\s]+`, Action: nil},
		{Name: "SingleLineComment", Pattern: `//[^\n]*`, Action: nil},

		// Keywords
		{Name: "App", Pattern: `\bapp\b`, Action: nil},
		{Name: "Route", Pattern: `\broute\b`, Action: nil},
		{Name: "Version", Pattern: `\bversion\b`, Action: nil},
		{Name: "Description", Pattern: `\bdescription\b`, Action: nil},
		{Name: "Handler", Pattern: `\bhandler\b`, Action: nil},
		{Name: "Kind", Pattern: `\bkind\b`, Action: nil},

		// Literals
		{Name: "String", Pattern: `"([^"\\]|\\.)*"`, Action: nil},

		// Identifiers (dashes allowed for kind names)
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`, Action: nil},

		// Punctuation
		{Name: "LBrace", Pattern: `\{`, Action: nil},
		{Name: "RBrace", Pattern: `\}`, Action: nil},
	},
})

// =============================================================================
// Participle Grammar Structs (Intermediate Representation)
// =============================================================================

// pManifest is the Participle grammar for a manifest file.
type pManifest struct {
	Pos   lexer.Position
	Decls []*pDecl `parser:"@@*"`
}

// pDecl is the Participle grammar for a top-level declaration.
type pDecl struct {
	Pos   lexer.Position
	App   *pAppDecl   `parser:"  @@"`
	Route *pRouteDecl `parser:"| @@"`
}

// pAppDecl is the Participle grammar for the app block.
type pAppDecl struct {
	Pos   lexer.Position
	Name  string   `parser:"App @String LBrace"`
	Props []*pProp `parser:"@@* RBrace"`
}

// pRouteDecl is the Participle grammar for a route block.
type pRouteDecl struct {
	Pos     lexer.Position
	Pattern string   `parser:"Route @String LBrace"`
	Props   []*pProp `parser:"@@* RBrace"`
}

// pProp is a key-value property inside a block.
type pProp struct {
	Pos   lexer.Position
	Key   string `parser:"@(Version | Description | Handler | Kind)"`
	Value string `parser:"@(String | Ident)"`
}

// =============================================================================
// Parser Instance
// =============================================================================

var parserInstance = participle.MustBuild[pManifest](
	participle.Lexer(manifestLexer),
	participle.Elide("whitespace", "SingleLineComment"),
	participle.UseLookahead(2),
)

// =============================================================================
// Public API
// =============================================================================

// App is the application metadata block.
type App struct {
	Name        string `validate:"required"`
	Version     string `validate:"omitempty,semver"`
	Description string
}

// Route is one declared route.
type Route struct {
	Pattern     string
	Description string
	Handler     string
	Kind        compiler.MessageKind
}

// Manifest is a loaded and validated manifest file.
type Manifest struct {
	App    App
	Routes []Route
}

var metaValidator = validator.New()

// Load parses and validates a manifest source.
func Load(input string) (*Manifest, error) {
	parsed, err := parserInstance.ParseString("", input)
	if err != nil {
		return nil, err
	}

	m, err := convertManifest(parsed)
	if err != nil {
		return nil, err
	}

	if err := metaValidator.Struct(m.App); err != nil {
		return nil, fmt.Errorf("invalid app metadata: %w", err)
	}
	return m, nil
}

// LoadFile parses and validates a manifest file.
func LoadFile(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Load(string(data))
}

// Collection compiles every declared route and returns the frozen endpoint
// collection. All failing routes are reported, not just the first.
func (m *Manifest) Collection() (*routing.Collection, error) {
	builder := routing.NewBuilder(routing.WithBuilderMetrics(metrics.Default()))
	var errs []error
	for _, route := range m.Routes {
		if err := builder.Add(route.Pattern, binding.HandlerSig{}, route.Description, route.Kind); err != nil {
			errs = append(errs, fmt.Errorf("route %q: %w", route.Pattern, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return builder.Build(), nil
}

// =============================================================================
// Conversion Helpers (Participle IR -> Manifest)
// =============================================================================

func convertManifest(p *pManifest) (*Manifest, error) {
	m := &Manifest{}
	sawApp := false
	for _, decl := range p.Decls {
		switch {
		case decl.App != nil:
			if sawApp {
				return nil, fmt.Errorf("%s: duplicate app block", decl.App.Pos)
			}
			sawApp = true
			m.App = convertApp(decl.App)
		case decl.Route != nil:
			route, err := convertRoute(decl.Route)
			if err != nil {
				return nil, err
			}
			m.Routes = append(m.Routes, route)
		}
	}
	return m, nil
}

func convertApp(a *pAppDecl) App {
	app := App{Name: unquote(a.Name)}
	for _, prop := range a.Props {
		switch prop.Key {
		case "version":
			app.Version = unquote(prop.Value)
		case "description":
			app.Description = unquote(prop.Value)
		}
	}
	return app
}

func convertRoute(r *pRouteDecl) (Route, error) {
	route := Route{Pattern: unquote(r.Pattern), Kind: compiler.KindQuery}
	for _, prop := range r.Props {
		switch prop.Key {
		case "description":
			route.Description = unquote(prop.Value)
		case "handler":
			route.Handler = unquote(prop.Value)
		case "kind":
			kind, ok := compiler.ParseMessageKind(unquote(prop.Value))
			if !ok {
				return Route{}, fmt.Errorf("%s: unknown route kind %q", prop.Pos, unquote(prop.Value))
			}
			route.Kind = kind
		}
	}
	return route, nil
}

// unquote removes surrounding quotes from a string if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
