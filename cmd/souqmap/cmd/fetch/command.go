// Package fetch provides the fetch command for downloading raw source tables.
package fetch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/souqmap"
	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/internal/cmd/emoji"
	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/sources"
)

// NewCommand creates the fetch command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch [source]",
		GroupID: "core",
		Short:   "Download raw source tables",
		Long: `Fetch downloads a raw source table into the working directory so later
reconcile runs can work offline.`,
		Example: `  souqmap fetch osm
  souqmap fetch osm --endpoint https://overpass-api.de/api/interpreter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown source: %s", args[0])
		},
	}

	cmd.AddCommand(NewOSMCommand(app))
	return cmd
}

// NewOSMCommand creates the fetch osm subcommand.
func NewOSMCommand(app application.Application) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "osm",
		Short: "Query Overpass and save the map API export",
		Long: `Query the Overpass interpreter for every shop and amenity tag in the
rule set within the Casablanca bounding box and save the result as
` + constants.MapAPIFile + ` in the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()

			opts := []souqmap.Option{souqmap.WithOnline(true)}
			if endpoint != "" {
				opts = append(opts, souqmap.WithEndpoint(endpoint))
			}
			client, err := app.Client(opts...)
			if err != nil {
				return err
			}

			src, ok := sources.NewSources(client.Sources()...).Get(sources.MapAPIID)
			if !ok {
				return errors.NewNotFoundError("source", sources.MapAPIID.String())
			}
			defer func() { _ = src.Cleanup() }()

			dir := app.Dir()
			fetchErr := src.Fetch(ctx, sources.WithOutputDir(dir))
			rows := 0
			for _, t := range src.Tables() {
				rows += t.Len()
			}
			if rows == 0 {
				if fetchErr != nil {
					return fetchErr
				}
				return fmt.Errorf("overpass returned no points of sale")
			}
			if fetchErr != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", emoji.Warning, fetchErr)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d points of sale to %s\n",
				emoji.Success, rows, filepath.Join(dir, constants.MapAPIFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Overpass interpreter URL")
	return cmd
}
