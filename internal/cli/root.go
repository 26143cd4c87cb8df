// Package cli implements the activestate command: it loads a config, builds a router and
// its tracked links, replays a navigation script and reports activation changes.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "activestate",
		Short: "Track which links are active as a router moves through its states",
		Long: `activestate loads a state tree and a set of link groups from a YAML config,
replays a script of navigations against an in-memory router and reports every
time a link or group becomes active or inactive.`,
		SilenceUsage: true,
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("activestate version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "activestate.yaml", "path to the config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newRunCmd(opts), newDotCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
