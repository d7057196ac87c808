package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func addTheme(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Set or toggle the persisted theme",
		ValidArgs: []string{"dark", "light"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				mode := ""
				if len(args) == 1 {
					mode = strings.ToLower(args[0])
					if mode != "dark" && mode != "light" {
						return fmt.Errorf("theme must be dark or light, got %q", args[0])
					}
				}
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()

				switch mode {
				case "":
					_, err = rt.state.ToggleTheme(cmd.Context())
				default:
					err = rt.state.SetDark(cmd.Context(), mode == "dark")
				}
				if err != nil {
					return err
				}
				current := "light"
				if rt.state.Dark() {
					current = "dark"
				}
				printer{w: cmd.OutOrStdout()}.ok("theme: %s", current)
				return nil
			}())
		},
	}
	topLevel.AddCommand(cmd)
}
