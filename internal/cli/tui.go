package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/nova/internal/log"
	"github.com/sandeepkv93/nova/internal/update"
)

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := openRuntime(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Log lines on stderr would tear the alt screen.
	logFile, err := openLogFile(rt.cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	eng := rt.engine(nil)
	model := update.NewModel(update.Deps{
		State:  rt.state,
		Fired:  eng.loop.C(),
		Player: eng.player,

		WeekStart: rt.cfg.FirstWeekday(),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	eng.notifier.SetPrompter(update.ProgramPrompter{Send: program.Send})

	if err := eng.loop.Start(); err != nil {
		return err
	}
	defer eng.stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("nova tui failed: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
