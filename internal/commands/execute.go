package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Event  func(EventArgs) (Result, error)
	Alarm  func(AlarmArgs) (Result, error)
	Toggle func(TargetArgs) (Result, error)
	Remove func(TargetArgs) (Result, error)
	Theme  func(ThemeArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeEvent:
		if handlers.Event == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "event handler not configured"}
		}
		return handlers.Event(*cmd.Event)
	case TypeAlarm:
		if handlers.Alarm == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "alarm handler not configured"}
		}
		return handlers.Alarm(*cmd.Alarm)
	case TypeToggle:
		if handlers.Toggle == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "toggle handler not configured"}
		}
		return handlers.Toggle(*cmd.Toggle)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "rm handler not configured"}
		}
		return handlers.Remove(*cmd.Remove)
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "theme handler not configured"}
		}
		return handlers.Theme(*cmd.Theme)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
