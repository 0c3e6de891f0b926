package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuru-cli/nuru/internal/binding"
	"github.com/nuru-cli/nuru/internal/compiler"
	"github.com/nuru-cli/nuru/internal/help"
	"github.com/nuru-cli/nuru/internal/routing"
	"github.com/nuru-cli/nuru/internal/syntax"
	"github.com/nuru-cli/nuru/pkg/metrics"
)

// parseResult is the JSON shape of a successfully compiled pattern.
type parseResult struct {
	Pattern     string `json:"pattern"`
	Canonical   string `json:"canonical"`
	Display     string `json:"display"`
	Specificity int    `json:"specificity"`
	Positional  int    `json:"positionalMatchers"`
	Options     int    `json:"optionMatchers"`
	HasCatchAll bool   `json:"hasCatchAll"`
}

// newParseCmd creates the parse command.
func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Parse, validate, and compile a route pattern",
		Long: `Parse a route pattern through the full pipeline: lexer, parser, semantic
validator, and compiler. On success the compiled matcher program and its
specificity score are displayed; on failure every diagnostic is listed
with its position in the pattern source.`,
		Args: cobra.ExactArgs(1),
		Example: `  nuru parse 'greet {name}'
  nuru parse 'deploy {env} --dry-run' --output json
  nuru parse 'copy {*src} {dst}'`,
		RunE: runParse,
	}
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	source := args[0]

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Parsing pattern: %s\n", source)
	}

	builder := routing.NewBuilder(routing.WithBuilderMetrics(metrics.Default()))
	if err := builder.Add(source, binding.HandlerSig{}, "", compiler.KindQuery); err != nil {
		var list *syntax.DiagnosticList
		if errors.As(err, &list) {
			for _, d := range list.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
			}
			return fmt.Errorf("pattern has %d error(s)", len(list.Diagnostics))
		}
		return err
	}
	ep := builder.Build().At(0)

	result := parseResult{
		Pattern:     source,
		Canonical:   syntax.Render(ep.Tree),
		Display:     help.Display(ep.Compiled),
		Specificity: ep.Compiled.Specificity,
		Positional:  len(ep.Compiled.Positional),
		Options:     len(ep.Compiled.Options),
		HasCatchAll: ep.Compiled.HasCatchAll,
	}

	if outputFormat == "json" {
		return outputJSON(cmd, result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pattern:     %s\n", result.Pattern)
	fmt.Fprintf(cmd.OutOrStdout(), "Canonical:   %s\n", result.Canonical)
	fmt.Fprintf(cmd.OutOrStdout(), "Display:     %s\n", result.Display)
	fmt.Fprintf(cmd.OutOrStdout(), "Specificity: %d\n", result.Specificity)
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ep.Tree.String())
	}
	return nil
}
