// Package notify delivers user-facing notifications, preferring the desktop
// notifier and falling back to a blocking prompt.
package notify

import (
	"sync"

	"github.com/sandeepkv93/nova/internal/log"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Sink is what the scheduler talks to. Notify never fails.
type Sink interface {
	Notify(title, body string)
}

type Options struct {
	// Enabled false denies desktop permission outright.
	Enabled  bool
	Icon     string
	Desktop  DesktopNotifier
	Prompter Prompter
}

type Notifier struct {
	mu         sync.Mutex
	permission Permission
	enabled    bool
	icon       string
	desktop    DesktopNotifier
	prompter   Prompter
}

func New(opts Options) *Notifier {
	if opts.Desktop == nil {
		opts.Desktop = NoopDesktopNotifier{}
	}
	if opts.Icon == "" {
		opts.Icon = DefaultIcon
	}
	return &Notifier{
		permission: PermissionDefault,
		enabled:    opts.Enabled,
		icon:       opts.Icon,
		desktop:    opts.Desktop,
		prompter:   opts.Prompter,
	}
}

// RequestPermission resolves an undetermined permission once. Later calls
// return the settled value.
func (n *Notifier) RequestPermission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission != PermissionDefault {
		return n.permission
	}
	switch {
	case !n.enabled:
		n.permission = PermissionDenied
	case !n.desktop.Available():
		n.permission = PermissionDenied
	default:
		n.permission = PermissionGranted
	}
	log.Debug("notification permission resolved", "permission", n.permission)
	return n.permission
}

func (n *Notifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// SetPrompter swaps the fallback, e.g. when the TUI takes over the terminal.
func (n *Notifier) SetPrompter(p Prompter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompter = p
}

func (n *Notifier) Notify(title, body string) {
	n.mu.Lock()
	granted := n.permission == PermissionGranted
	prompter := n.prompter
	n.mu.Unlock()

	if granted {
		if err := n.desktop.Send(Notification{Title: title, Body: body, Icon: n.icon}); err != nil {
			log.Warn("desktop notification failed", "title", title, "reason", err)
		}
		return
	}
	if prompter == nil {
		log.Warn("notification dropped, no prompter", "title", title)
		return
	}
	prompter.Prompt(title, body)
}
