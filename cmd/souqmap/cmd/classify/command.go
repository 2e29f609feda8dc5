// Package classify provides the classify command.
package classify

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/internal/cmd/output"
	"github.com/agentstation/souqmap/internal/cmd/table"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/sources"
)

// Classification is the outcome of classifying one tag.
type Classification struct {
	Tag      string         `json:"tag" yaml:"tag"`
	Source   sources.ID     `json:"source" yaml:"source"`
	Category string         `json:"category" yaml:"category"`
	Sector   records.Sector `json:"sector" yaml:"sector"`
	Icon     string         `json:"icon" yaml:"icon"`
	Known    bool           `json:"known" yaml:"known"`
}

// NewCommand creates the classify command.
func NewCommand(app application.Application) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "classify <tag>",
		GroupID: "rules",
		Short:   "Show the category and sector a source tag maps to",
		Long: `Classify runs one raw tag through the category classifier the way the
given source path would: map API tags are shop or amenity values
(optionally written key=value), feed tags are brand labels and legacy tags
are category names.`,
		Example: `  souqmap classify supermarket
  souqmap classify amenity=cafe
  souqmap classify "Carrefour Market" --source atp
  souqmap classify Hammam --source legacy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := sources.ID(strings.ToLower(source))
			if !id.IsValid() {
				return fmt.Errorf("invalid source %q: must be one of: %s", source, joinIDs())
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			cls := client.Classifier()
			category, sector := cls.Classify(args[0], id.Tag())

			result := Classification{
				Tag:      args[0],
				Source:   id,
				Category: category,
				Sector:   sector,
				Icon:     client.Rules().Icon(category),
				Known:    cls.Known(category),
			}
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), table.KeyValueToTableData(
				[2]string{"Tag", result.Tag},
				[2]string{"Source", string(result.Source)},
				[2]string{"Category", result.Category},
				[2]string{"Sector", string(result.Sector)},
				[2]string{"Icon", result.Icon},
			), result)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", string(sources.MapAPIID), "source path: "+joinIDs())
	return cmd
}

func joinIDs() string {
	ids := sources.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ", ")
}
