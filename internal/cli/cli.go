// Package cli wires the nova commands.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/config"
)

type rootOptions struct {
	ConfigPath string
	JSON       bool
}

// handleError prints err as {"error": "..."} when --json is set and swallows
// it; otherwise err is returned to cobra unchanged.
func (o *rootOptions) handleError(cmd *cobra.Command, err error) error {
	if !o.JSON || err == nil {
		return err
	}
	b, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return mErr
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func New() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nova",
		Short: "Personal reminder engine for calendar events and alarms.",
		Long: `nova keeps a list of calendar events and one-shot alarms.

Alarms ring at their exact minute and switch themselves off. Events get a
single notification ten minutes before they start.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, runTUI(cmd, opts))
		},
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultConfigPath, "Path to the YAML config file.")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Print errors as JSON.")

	AddCommands(cmd, opts)
	return cmd
}

func AddCommands(topLevel *cobra.Command, opts *rootOptions) {
	addDaemon(topLevel, opts)
	addEvent(topLevel, opts)
	addAlarm(topLevel, opts)
	addTheme(topLevel, opts)
	addImport(topLevel, opts)
	addSounds(topLevel)
	addCheck(topLevel, opts)
}
