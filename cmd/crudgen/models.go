package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func modelsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect the configured model definitions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate every model and print its routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd.Flags().Changed("config"), storageless)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			models, err := cfg.ResolveModels()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tTABLE\tPRIMARY KEY\tCOLUMNS\tAPI\tPAGES")
			for _, m := range models {
				def := m.Definition()
				pk := def.PrimaryKey()

				pages := "/" + def.Key() + "/"
				if m.SkipWeb {
					pages = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					def.Name, def.Table, pk.Name,
					strings.Join(def.ColumnNames(), ","),
					cfg.API.Prefix(def.Key())+"/",
					pages,
				)
			}
			return tw.Flush()
		},
	})
	return cmd
}
