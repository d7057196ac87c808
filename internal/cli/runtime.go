package cli

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/nova/internal/config"
	"github.com/sandeepkv93/nova/internal/log"
	"github.com/sandeepkv93/nova/internal/notify"
	"github.com/sandeepkv93/nova/internal/scheduler"
	"github.com/sandeepkv93/nova/internal/sound"
	"github.com/sandeepkv93/nova/internal/state"
	"github.com/sandeepkv93/nova/internal/store"
)

// runtime is the loaded config plus the restored state for one invocation.
type runtime struct {
	cfg   config.RuntimeConfig
	store *store.Store
	state *state.State
}

func openRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	st, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	snap := st.Load(ctx)
	log.Debug("state restored", "driver", cfg.StoreDriver, "events", len(snap.Events), "alarms", len(snap.Alarms))
	return &runtime{cfg: cfg, store: st, state: state.New(snap, st)}, nil
}

func (r *runtime) Close() error {
	return r.store.Close()
}

// engine is the notifier, sound player and evaluation loop built from the
// runtime config.
type engine struct {
	notifier *notify.Notifier
	player   *sound.Player
	loop     *scheduler.Loop
}

func (r *runtime) engine(prompter notify.Prompter) *engine {
	notifier := notify.New(notify.Options{
		Enabled:  r.cfg.DesktopNotifications,
		Icon:     r.cfg.NotificationIcon,
		Desktop:  notify.NewExecDesktopNotifier(),
		Prompter: prompter,
	})
	perm := notifier.RequestPermission()
	log.Info("notification permission resolved", "permission", perm)

	player := sound.NewPlayer(sound.Detect(r.cfg.SoundCommand), r.cfg.SoundCeiling)
	loop := scheduler.New(r.state, notifier, player, scheduler.Options{
		Interval: r.cfg.TickInterval,
		Buffer:   r.cfg.FiredBuffer,
	})
	return &engine{notifier: notifier, player: player, loop: loop}
}

func (e *engine) stop() {
	e.loop.Stop()
	e.player.Stop()
}
