package main

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/crud-generator/internal/infrastructure"
	"github.com/JaimeStill/crud-generator/pkg/logging"
	"github.com/JaimeStill/crud-generator/pkg/openapi"
)

func openapiCmd(opts *rootOptions) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "openapi [file]",
		Short: "Render the OpenAPI document of the generated JSON API",
		Long: `Render the OpenAPI document of the generated JSON API to file, or to
stdout when file is omitted. No templates are installed and no database
connection is made.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd.Flags().Changed("config"), storageless)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			infra, err := infrastructure.NewWithLogger(cfg, logging.Discard())
			if err != nil {
				return err
			}
			app, err := NewApp(cfg, infra, false)
			if err != nil {
				return err
			}

			data, err := openapi.MarshalJSON(app.Spec())
			if err != nil {
				return err
			}
			if validate {
				if err := validateSpec(cmd.Context(), data); err != nil {
					return err
				}
			}

			if len(args) == 1 {
				return openapi.WriteJSON(app.Spec(), args[0])
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "validate the document before writing it")
	return cmd
}

// validateSpec checks the rendered document against the OpenAPI 3 schema.
func validateSpec(ctx context.Context, data []byte) error {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid openapi document: %w", err)
	}
	return nil
}
