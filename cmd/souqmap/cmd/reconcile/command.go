// Package reconcile provides the reconcile command.
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/souqmap"
	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/save"
)

// Flags holds the reconcile command flags.
type Flags struct {
	Online     bool
	Endpoint   string
	Simulate   bool
	KeepRaw    bool
	KeepZero   bool
	Out        string
	SaveFormat string
	DryRun     bool
	ShowTable  bool
}

// NewCommand creates the reconcile command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Merge every source into the final point-of-sale table",
		Long: `Reconcile loads the map API export, the directory feed and the legacy
tables from the working directory, normalizes, classifies and zones every
record, drops records without coordinates and exact duplicates, then saves
the final table and prints its statistics.

Sources that are missing or unreadable are skipped with a warning.`,
		Example: `  souqmap reconcile
  souqmap reconcile --online --keep-raw
  souqmap reconcile --out merged.json --save-format json
  souqmap reconcile --dry-run -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Online, "online", false, "query Overpass instead of reading the latest map API export")
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "Overpass interpreter URL")
	cmd.Flags().BoolVar(&flags.Simulate, "simulate", true, "generate the directory feed when no export exists")
	cmd.Flags().BoolVar(&flags.KeepRaw, "keep-raw", false, "write downloaded or generated raw tables to the working directory")
	cmd.Flags().BoolVar(&flags.KeepZero, "keep-zero", false, "keep records with a zero latitude or longitude")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output file (default is "+constants.MergedFile+" in the working directory)")
	cmd.Flags().StringVar(&flags.SaveFormat, "save-format", "", "file format: csv, json, yaml (default from --out extension, else csv)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "reconcile without saving")
	cmd.Flags().BoolVar(&flags.ShowTable, "show", false, "print the final records")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
	defer cancel()

	client, err := app.Client(clientOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	result, err := client.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconciling sources: %w", err)
	}

	path := ""
	if !flags.DryRun {
		saveOpts, err := saveOptions(flags)
		if err != nil {
			return err
		}
		if path, err = client.Save(result, saveOpts...); err != nil {
			return err
		}
	}

	return printResult(cmd.OutOrStdout(), app.OutputFormat(), result, path, flags.ShowTable)
}

// clientOptions turns the flags given on the command line into client
// options; unset flags keep the configured values.
func clientOptions(cmd *cobra.Command, flags *Flags) []souqmap.Option {
	changed := cmd.Flags().Changed
	var opts []souqmap.Option
	if changed("online") {
		opts = append(opts, souqmap.WithOnline(flags.Online))
	}
	if changed("endpoint") {
		opts = append(opts, souqmap.WithEndpoint(flags.Endpoint))
	}
	if changed("simulate") {
		opts = append(opts, souqmap.WithSimulation(flags.Simulate))
	}
	if changed("keep-raw") {
		opts = append(opts, souqmap.WithKeepRaw(flags.KeepRaw))
	}
	if changed("keep-zero") {
		opts = append(opts, souqmap.WithZeroFilter(!flags.KeepZero))
	}
	return opts
}

func saveOptions(flags *Flags) ([]save.Option, error) {
	var opts []save.Option
	if flags.Out != "" {
		opts = append(opts, save.WithPath(flags.Out))
	}

	name := flags.SaveFormat
	if name == "" && flags.Out != "" {
		name = filepath.Ext(flags.Out)
	}
	if name != "" {
		format, ok := save.ParseFormat(name)
		if !ok {
			if flags.SaveFormat == "" {
				return opts, nil
			}
			return nil, fmt.Errorf("invalid save format %q: must be one of: csv, json, yaml", name)
		}
		opts = append(opts, save.WithFormat(format))
	}
	return opts, nil
}
