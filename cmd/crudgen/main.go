// Command crudgen serves JSON APIs and HTML pages generated from model
// definitions, and manages their schema migrations and templates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "crudgen",
		Short: "Generate CRUD routes from model definitions",
		Long: `crudgen registers a JSON API and a set of HTML pages for every model
declared in config.toml or in the YAML models file it points to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.toml", "path to the configuration file")

	root.AddCommand(
		serveCmd(opts),
		migrateCmd(opts),
		templatesCmd(opts),
		modelsCmd(opts),
		openapiCmd(opts),
		versionCmd(),
	)
	return root
}
