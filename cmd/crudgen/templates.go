package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/crud-generator/pkg/crud"
)

func templatesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the bundled page templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install [dir]",
		Short: "Copy the bundled templates into dir, overwriting same-named files",
		Long: `Copy the bundled templates into dir, or web.template_dir when dir is
omitted. Existing files with the same names are overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else {
				cfg, err := loadConfig(opts, cmd.Flags().Changed("config"), storageless)
				if err != nil {
					return fmt.Errorf("config: %w", err)
				}
				dir = cfg.Web.TemplateDir
			}

			installed, err := crud.InstallTemplates(dir)
			if err != nil {
				return err
			}
			for _, p := range installed {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	})
	return cmd
}
