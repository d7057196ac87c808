package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/sound"
)

func addSounds(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sounds",
		Short: "List the built-in alarm sounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer{w: cmd.OutOrStdout()}
			ids := sound.IDs()
			p.title("Sounds", len(ids))
			for _, id := range ids {
				name := color.New(color.Bold).Sprint(id)
				if id == sound.DefaultID {
					name += color.New(color.Faint).Sprint(" (default)")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", name, sound.Catalog[id])
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
