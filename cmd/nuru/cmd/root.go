// Package cmd provides the CLI commands for the nuru tool.
package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/nuru-cli/nuru/pkg/logging"
)

var (
	// cfgFile holds the path to the config file
	cfgFile string
	// verbose enables verbose output
	verbose bool
	// outputFormat specifies the output format (json, plain)
	outputFormat string
	// logger is the process logger, configured in the persistent pre-run
	logger *logging.Logger
)

// fileConfig is the optional YAML configuration file.
type fileConfig struct {
	Logging logging.Config `yaml:"logging"`
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nuru",
	Short: "Route pattern toolkit",
	Long: `Nuru is a route-based command-line framework: programs declare routes as
pattern strings and the framework selects the best-matching route for an
argument vector, extracts values, and converts them for the handler.

This tool exposes the pipeline directly: parse and inspect patterns,
resolve argument vectors against a route manifest, and render help text
for a manifest's command surface.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// NewRootCmd creates a new root command for testing.
// This allows tests to create fresh command trees.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "nuru",
		Short:             rootCmd.Short,
		Long:              rootCmd.Long,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	addFlags(cmd)
	addCommands(cmd)
	return cmd
}

func init() {
	addFlags(rootCmd)
	addCommands(rootCmd)
}

func addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nuru.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "plain", "output format (json|plain)")
	cmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})
}

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newRoutesCmd())
}

// setup loads the optional config file and builds the process logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger = logging.New(cfg.Logging)
	return nil
}

// loadConfig reads the config file when present; a missing file is not an
// error, the defaults apply.
func loadConfig() fileConfig {
	cfg := fileConfig{Logging: logging.ConfigFromEnv()}

	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg
		}
		path = filepath.Join(home, ".nuru.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{Logging: logging.ConfigFromEnv()}
	}
	return cfg
}

// outputJSON writes data as indented JSON to the command's stdout.
func outputJSON(cmd *cobra.Command, data interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
