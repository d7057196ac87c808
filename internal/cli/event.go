package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/model"
)

type eventAddOptions struct {
	Color       string
	Description string
}

func addEvent(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Manage calendar events",
	}
	addEventAdd(cmd, opts)
	addEventRemove(cmd, opts)
	addEventList(cmd, opts)
	topLevel.AddCommand(cmd)
}

func addEventAdd(parent *cobra.Command, opts *rootOptions) {
	ao := &eventAddOptions{}
	cmd := &cobra.Command{
		Use:   "add <date> <time> <title...>",
		Short: "Add a calendar event",
		Example: `
nova event add 2026-03-14 15:30 dentist
nova event add 2026-03-14 09:00 standup --color emerald
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return errors.New("requires date, time and title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				color := model.Color(strings.ToLower(strings.TrimSpace(ao.Color)))
				if !color.IsKnown() {
					return fmt.Errorf("unknown color %q", ao.Color)
				}
				ev, err := model.NewCalendarEvent(strings.Join(args[2:], " "), args[0], args[1], color, ao.Description)
				if err != nil {
					return err
				}
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.state.AddEvent(cmd.Context(), ev); err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.ok("added event %s: %s %s %s", ev.ID, ev.Date, ev.Time, ev.Title)
				return nil
			}())
		},
	}
	cmd.Flags().StringVar(&ao.Color, "color", string(model.DefaultColor), "Color tag: indigo, rose, emerald, amber, sky or violet.")
	cmd.Flags().StringVar(&ao.Description, "description", "", "Markdown description.")
	parent.AddCommand(cmd)
}

func addEventRemove(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a calendar event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.state.DeleteEvent(cmd.Context(), args[0]); err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.ok("deleted event %s", args[0])
				return nil
			}())
		},
	}
	parent.AddCommand(cmd)
}

func addEventList(parent *cobra.Command, opts *rootOptions) {
	var showID bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List calendar events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				printer{w: cmd.OutOrStdout(), showID: showID}.events(rt.state.Events())
				return nil
			}())
		},
	}
	cmd.Flags().BoolVar(&showID, "id", false, "Show ids.")
	parent.AddCommand(cmd)
}
