package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuru-cli/nuru/internal/help"
	"github.com/nuru-cli/nuru/internal/manifest"
)

// newRoutesCmd creates the routes command.
func newRoutesCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "routes --manifest <file>",
		Short: "Render the command surface of a route manifest",
		Args:  cobra.NoArgs,
		Example: `  nuru routes --manifest routes.nuru`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(cmd, manifestPath)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "route manifest file")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runRoutes(cmd *cobra.Command, manifestPath string) error {
	m, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	collection, err := m.Collection()
	if err != nil {
		return fmt.Errorf("compiling manifest routes: %w", err)
	}

	meta := help.Meta{
		Name:        m.App.Name,
		Description: m.App.Description,
		Version:     m.App.Version,
	}
	fmt.Fprint(cmd.OutOrStdout(), help.Render(collection, meta))
	return nil
}
