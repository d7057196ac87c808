package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/log"
	"github.com/sandeepkv93/nova/internal/notify"
)

func addDaemon(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder loop without the terminal UI",
		Example: `
nova daemon
NOVA_TICK_INTERVAL=5s nova daemon
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return opts.handleError(cmd, runDaemon(ctx, cmd, opts))
		},
	}
	topLevel.AddCommand(cmd)
}

func runDaemon(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	eng := rt.engine(notify.NewTerminalPrompter(cmd.OutOrStdout(), nil))
	if err := eng.loop.Start(); err != nil {
		return err
	}
	log.Info("daemon started", "interval", rt.cfg.TickInterval, "permission", eng.notifier.Permission())

	p := printer{w: cmd.OutOrStdout(), showID: false}
	fired := eng.loop.C()
	for {
		select {
		case <-ctx.Done():
			eng.stop()
			log.Info("daemon stopped", "dropped", eng.loop.Dropped())
			return nil
		case f, ok := <-fired:
			if !ok {
				return nil
			}
			p.match(f.Match, false)
		}
	}
}
