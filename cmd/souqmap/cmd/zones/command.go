// Package zones provides the zone and zones commands.
package zones

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/internal/cmd/output"
	"github.com/agentstation/souqmap/internal/cmd/table"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/records"
)

// Box is the structured form of a zone box.
type Box struct {
	Name   string  `json:"name" yaml:"name"`
	LatMin float64 `json:"lat_min" yaml:"lat_min"`
	LatMax float64 `json:"lat_max" yaml:"lat_max"`
	LonMin float64 `json:"lon_min" yaml:"lon_min"`
	LonMax float64 `json:"lon_max" yaml:"lon_max"`
}

// Assignment is the zone a point falls in.
type Assignment struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Zone      string  `json:"zone" yaml:"zone"`
	Matched   bool    `json:"matched" yaml:"matched"`
}

// NewCommand creates the zones command listing every zone box.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "zones",
		GroupID: "rules",
		Short:   "List zone boxes in matching order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			zs := client.Zones().Zones()
			boxes := make([]Box, len(zs))
			for i, z := range zs {
				boxes[i] = Box{
					Name:   z.Name,
					LatMin: z.Bound.Min.Lat(),
					LatMax: z.Bound.Max.Lat(),
					LonMin: z.Bound.Min.Lon(),
					LonMax: z.Bound.Max.Lon(),
				}
			}
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), table.ZonesToTableData(zs), boxes)
		},
	}
}

// NewZoneCommand creates the zone command locating one point.
func NewZoneCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "zone <lat> <lon>",
		GroupID: "rules",
		Short:   "Show the zone a coordinate falls in",
		Long: `Zone returns the first zone box containing the point, or the default
zone when none does. The point can be given as two arguments or as one
"lat,lon" argument.`,
		Example: `  souqmap zone 33.58,-7.64
  souqmap zone -- 33.58 -7.64`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lon, err := parsePoint(args)
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			assigner := client.Zones()
			zone := assigner.Assign(&lat, &lon)

			result := Assignment{
				Latitude:  lat,
				Longitude: lon,
				Zone:      zone,
				Matched:   zone != assigner.Default(),
			}
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), table.KeyValueToTableData(
				[2]string{"Latitude", records.FormatCoordinate(&lat)},
				[2]string{"Longitude", records.FormatCoordinate(&lon)},
				[2]string{"Zone", zone},
			), result)
		},
	}
}

func parsePoint(args []string) (lat, lon float64, err error) {
	if len(args) == 1 {
		parts := strings.Split(args[0], ",")
		if len(parts) != 2 {
			return 0, 0, errors.NewValidationError("point", args[0], `expected "lat,lon"`)
		}
		args = parts
	}

	values := make([]float64, 2)
	for i, name := range []string{"latitude", "longitude"} {
		v, err := records.ParseCoordinate(args[i])
		if err != nil {
			return 0, 0, errors.WrapValidation(name, err)
		}
		if v == nil {
			return 0, 0, errors.NewValidationError(name, args[i], "is required")
		}
		values[i] = *v
	}
	if values[0] < -90 || values[0] > 90 {
		return 0, 0, errors.NewValidationError("latitude", values[0], fmt.Sprintf("%v is out of range", values[0]))
	}
	if values[1] < -180 || values[1] > 180 {
		return 0, 0, errors.NewValidationError("longitude", values[1], fmt.Sprintf("%v is out of range", values[1]))
	}
	return values[0], values[1], nil
}
