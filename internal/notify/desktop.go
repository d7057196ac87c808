package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

const DefaultIcon = "appointment-soon"

type Notification struct {
	Title string
	Body  string
	Icon  string
}

type DesktopNotifier interface {
	// Available reports whether the platform notifier can be used at all.
	Available() bool
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Available() bool { return false }
func (NoopDesktopNotifier) Send(Notification) error { return nil }

// ExecDesktopNotifier shells out to notify-send on linux. On darwin it uses
// terminal-notifier when installed and osascript otherwise. osascript's
// display notification takes no icon, so Icon is dropped there. Other
// platforms report unavailable.
type ExecDesktopNotifier struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

func NewExecDesktopNotifier() *ExecDesktopNotifier {
	return &ExecDesktopNotifier{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (n *ExecDesktopNotifier) command() string {
	switch n.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func (n *ExecDesktopNotifier) Available() bool {
	name := n.command()
	if name == "" {
		return false
	}
	_, err := n.lookPath(name)
	return err == nil
}

func (n *ExecDesktopNotifier) Send(msg Notification) error {
	switch n.goos {
	case "linux":
		args := []string{}
		if msg.Icon != "" {
			args = append(args, "--icon", msg.Icon)
		}
		args = append(args, msg.Title, msg.Body)
		return n.run("notify-send", args...)
	case "darwin":
		if _, err := n.lookPath("terminal-notifier"); err == nil {
			args := []string{"-title", msg.Title, "-message", msg.Body}
			if icon := darwinIcon(msg.Icon); icon != "" {
				args = append(args, "-appIcon", icon)
			}
			return n.run("terminal-notifier", args...)
		}
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(msg.Body), escapeAppleScript(msg.Title))
		return n.run("osascript", "-e", script)
	default:
		return nil
	}
}

// darwinIcon keeps icons given as a file path or URL. Freedesktop theme
// names such as appointment-soon have no macOS equivalent.
func darwinIcon(icon string) string {
	if strings.Contains(icon, "/") {
		return icon
	}
	return ""
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
