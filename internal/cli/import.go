package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/ics"
)

func addImport(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Import timed events from an iCalendar file",
		Long: `Import converts each timed VEVENT to an event in the local time zone.
All-day entries are skipped, recurrence rules are ignored and events whose
UID is already known are left alone.`,
		Example: `
nova import ~/Downloads/work.ics
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				res, err := ics.ParseFile(args[0], time.Local)
				if err != nil {
					return err
				}
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				added, err := rt.state.ImportEvents(cmd.Context(), res.Events)
				if err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.ok("imported %d event(s); %d already known, %d all-day skipped, %d invalid",
					added, len(res.Events)-added, res.SkippedAllDay, res.SkippedInvalid)
				return nil
			}())
		},
	}
	topLevel.AddCommand(cmd)
}
