// Package simulate provides the simulate command for generating raw tables.
package simulate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/internal/cmd/emoji"
	"github.com/agentstation/souqmap/internal/cmd/output"
	"github.com/agentstation/souqmap/internal/cmd/table"
	"github.com/agentstation/souqmap/internal/sources/feed"
	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// NewCommand creates the simulate command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simulate [source]",
		GroupID: "core",
		Short:   "Generate simulated raw tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown source: %s", args[0])
		},
	}

	cmd.AddCommand(NewFeedCommand(app))
	return cmd
}

// NewFeedCommand creates the simulate feed subcommand.
func NewFeedCommand(app application.Application) *cobra.Command {
	var (
		out    string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Write the simulated brand directory feed",
		Long: `Generate the brand directory feed: every brand branch placed in its
neighbourhood plus the city-centre stores. The table is written as
` + constants.FeedFile + ` in the working directory unless --stdout is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			t := feed.Simulate(client.Rules())

			if stdout {
				return output.Print(cmd.OutOrStdout(), app.OutputFormat(), toData(t), t.Rows)
			}

			path := out
			if path == "" {
				path = filepath.Join(app.Dir(), constants.FeedFile)
			}
			if err := tabular.WriteFile(path, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d branches to %s\n", emoji.Success, t.Len(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default is "+constants.FeedFile+" in the working directory)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the feed instead of writing it")
	return cmd
}

func toData(t *tabular.Table) table.Data {
	return table.Data{Headers: t.Columns, Rows: t.Records()}
}
