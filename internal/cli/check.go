package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/matcher"
	"github.com/sandeepkv93/nova/internal/model"
)

const atLayout = "2006-01-02 15:04:05"

func addCheck(topLevel *cobra.Command, opts *rootOptions) {
	var at string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Print what one evaluation cycle would announce right now",
		Long: `Check runs a single evaluation against the stored alarms and events and
prints the matches. Nothing is notified, played or saved.`,
		Example: `
nova check
nova check --at "2026-03-14 15:20:00"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				now := time.Now()
				if at != "" {
					parsed, err := time.ParseInLocation(atLayout, at, time.Local)
					if err != nil {
						return fmt.Errorf("--at must look like %q: %w", atLayout, err)
					}
					now = parsed
				}
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()

				matches := matcher.EvaluateBand(now, rt.state.Alarms(), rt.state.Events(), matcher.DefaultBand)
				p := printer{w: cmd.OutOrStdout(), showID: true}
				p.title("Matches at "+now.Format(atLayout), len(matches))
				if len(matches) == 0 {
					p.none()
					return nil
				}
				for _, m := range matches {
					suppressed := m.Kind == model.MatchEventUpcoming && rt.state.WasNotified(m.ID, m.Key())
					p.match(m, suppressed)
				}
				return nil
			}())
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this local time instead of now.")
	topLevel.AddCommand(cmd)
}
