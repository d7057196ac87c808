package scheduler

import (
	"github.com/sandeepkv93/nova/internal/log"
)

// cronLogger routes robfig/cron diagnostics into the leveled logger. Cron's
// info messages are per-tick chatter, so they go to debug.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error("cron: "+msg, err, keysAndValues...)
}
