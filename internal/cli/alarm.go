package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/sound"
)

func addAlarm(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "alarm",
		Aliases: []string{"alarms"},
		Short:   "Manage one-shot alarms",
	}
	addAlarmAdd(cmd, opts)
	addAlarmRemove(cmd, opts)
	addAlarmToggle(cmd, opts)
	addAlarmList(cmd, opts)
	topLevel.AddCommand(cmd)
}

func addAlarmAdd(parent *cobra.Command, opts *rootOptions) {
	var soundID string
	cmd := &cobra.Command{
		Use:   "add <date> <time> <title...>",
		Short: "Add an alarm",
		Example: `
nova alarm add 2026-03-14 07:00 wake up
nova alarm add 2026-03-14 16:00 stretch --sound zen
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return errors.New("requires date, time and title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				if !sound.IsValid(soundID) {
					return fmt.Errorf("unknown sound %q, see nova sounds", soundID)
				}
				a, err := model.NewAlarm(strings.Join(args[2:], " "), args[0], args[1], soundID)
				if err != nil {
					return err
				}
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.state.AddAlarm(cmd.Context(), a); err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.ok("added alarm %s: %s %s %s", a.ID, a.Date, a.Time, a.Title)
				return nil
			}())
		},
	}
	cmd.Flags().StringVar(&soundID, "sound", model.DefaultSound, "Sound id or data:audio/...;base64, URI.")
	_ = cmd.RegisterFlagCompletionFunc("sound", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return sound.IDs(), cobra.ShellCompDirectiveNoFileComp
	})
	parent.AddCommand(cmd)
}

func addAlarmRemove(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an alarm",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.state.DeleteAlarm(cmd.Context(), args[0]); err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.ok("deleted alarm %s", args[0])
				return nil
			}())
		},
	}
	parent.AddCommand(cmd)
}

func addAlarmToggle(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				a, err := rt.state.ToggleAlarm(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				state := "disabled"
				if a.IsEnabled {
					state = "enabled"
				}
				printer{w: cmd.OutOrStdout()}.ok("alarm %s %s", a.ID, state)
				return nil
			}())
		},
	}
	parent.AddCommand(cmd)
}

func addAlarmList(parent *cobra.Command, opts *rootOptions) {
	var showID bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List alarms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.handleError(cmd, func() error {
				rt, err := openRuntime(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer rt.Close()
				printer{w: cmd.OutOrStdout(), showID: showID}.alarms(rt.state.Alarms())
				return nil
			}())
		},
	}
	cmd.Flags().BoolVar(&showID, "id", false, "Show ids.")
	parent.AddCommand(cmd)
}
