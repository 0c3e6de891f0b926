package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nuru-cli/nuru/internal/manifest"
	"github.com/nuru-cli/nuru/internal/routing"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

// resolveResult is the JSON shape of a successful resolution.
type resolveResult struct {
	Pattern   string            `json:"pattern"`
	Handler   string            `json:"handler,omitempty"`
	Kind      string            `json:"kind"`
	Extracted map[string]string `json:"extracted"`
	Consumed  int               `json:"consumed"`
}

// newResolveCmd creates the resolve command.
func newResolveCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "resolve --manifest <file> [--] <args>...",
		Short: "Resolve an argument vector against a route manifest",
		Long: `Load a route manifest, compile its routes, and resolve the given argument
vector against them. The most specific matching route wins; the matched
pattern and the extracted values are displayed.

Exit code 0 means a route matched; 1 means no route matched or the
manifest failed to load.`,
		Args: cobra.MinimumNArgs(1),
		Example: `  nuru resolve --manifest routes.nuru -- greet Alice
  nuru resolve --manifest routes.nuru --output json -- deploy prod --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, manifestPath, args)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "route manifest file")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runResolve(cmd *cobra.Command, manifestPath string, args []string) error {
	m, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	collection, err := m.Collection()
	if err != nil {
		return fmt.Errorf("compiling manifest routes: %w", err)
	}

	resolver := routing.NewResolver(
		routing.WithMetrics(metrics.Default()),
		routing.WithLogger(logger),
	)
	resolution, diag := resolver.Resolve(args, collection)
	if diag != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.Format())
		return fmt.Errorf("resolution failed")
	}

	handler := ""
	for _, route := range m.Routes {
		if route.Pattern == resolution.Endpoint.Pattern {
			handler = route.Handler
			break
		}
	}

	result := resolveResult{
		Pattern:   resolution.Endpoint.Pattern,
		Handler:   handler,
		Kind:      resolution.Endpoint.Kind.String(),
		Extracted: resolution.Extracted,
		Consumed:  resolution.Consumed,
	}

	if outputFormat == "json" {
		return outputJSON(cmd, result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Matched: %s\n", result.Pattern)
	if result.Handler != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Handler: %s\n", result.Handler)
	}
	names := make([]string, 0, len(result.Extracted))
	for name := range result.Extracted {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s = %q\n", name, result.Extracted[name])
	}
	return nil
}
