package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/souqmap/cmd/souqmap/cmd/classify"
	"github.com/agentstation/souqmap/cmd/souqmap/cmd/fetch"
	"github.com/agentstation/souqmap/cmd/souqmap/cmd/reconcile"
	"github.com/agentstation/souqmap/cmd/souqmap/cmd/simulate"
	"github.com/agentstation/souqmap/cmd/souqmap/cmd/version"
	"github.com/agentstation/souqmap/cmd/souqmap/cmd/zones"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(fetch.NewCommand(a))
	rootCmd.AddCommand(simulate.NewCommand(a))

	// Rule commands
	rootCmd.AddCommand(classify.NewCommand(a))
	rootCmd.AddCommand(zones.NewZoneCommand(a))
	rootCmd.AddCommand(zones.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
