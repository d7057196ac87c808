package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/sound"
)

type Type string

const (
	TypeEvent  Type = "event"
	TypeAlarm  Type = "alarm"
	TypeToggle Type = "toggle"
	TypeRemove Type = "rm"
	TypeTheme  Type = "theme"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type EventArgs struct {
	Date  string
	Time  string
	Title string
	Color model.Color
}

type AlarmArgs struct {
	Date  string
	Time  string
	Title string
	Sound string
}

type TargetArgs struct {
	ID string
}

// ThemeArgs.Mode is "dark", "light" or "" for toggle.
type ThemeArgs struct {
	Mode string
}

type Command struct {
	Type   Type
	Raw    string
	Event  *EventArgs
	Alarm  *AlarmArgs
	Toggle *TargetArgs
	Remove *TargetArgs
	Theme  *ThemeArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeEvent:
		return parseEvent(input, args)
	case TypeAlarm:
		return parseAlarm(input, args)
	case TypeToggle:
		id, err := parseTarget(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeToggle, Raw: input, Toggle: id}, nil
	case TypeRemove, "delete":
		id, err := parseTarget(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemove, Raw: input, Remove: id}, nil
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseWhen consumes "<date> <time>" and returns the canonical forms.
func parseWhen(name string, args []string) (string, string, []string, error) {
	if len(args) < 3 {
		return "", "", nil, &CommandError{Code: ErrCodeInvalidArgument, Message: name + " requires date, time and title"}
	}
	date, err := model.ParseDate(args[0])
	if err != nil {
		return "", "", nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("date must be YYYY-MM-DD, got %q", args[0])}
	}
	clock, err := model.ParseTime(args[1])
	if err != nil {
		return "", "", nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("time must be HH:MM, got %q", args[1])}
	}
	return date, clock, args[2:], nil
}

func parseEvent(raw string, args []string) (Command, error) {
	date, clock, rest, err := parseWhen("event", args)
	if err != nil {
		return Command{}, err
	}
	out := EventArgs{Date: date, Time: clock, Color: model.DefaultColor}
	words := make([]string, 0, len(rest))
	for _, arg := range rest {
		if strings.HasPrefix(strings.ToLower(arg), "color:") {
			c := model.Color(strings.ToLower(strings.TrimSpace(arg[len("color:"):])))
			if !c.IsKnown() {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown color: %s", c)}
			}
			out.Color = c
			continue
		}
		words = append(words, arg)
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "event requires a title"}
	}
	return Command{Type: TypeEvent, Raw: raw, Event: &out}, nil
}

func parseAlarm(raw string, args []string) (Command, error) {
	date, clock, rest, err := parseWhen("alarm", args)
	if err != nil {
		return Command{}, err
	}
	out := AlarmArgs{Date: date, Time: clock, Sound: model.DefaultSound}
	words := make([]string, 0, len(rest))
	for _, arg := range rest {
		if strings.HasPrefix(strings.ToLower(arg), "sound:") {
			id := strings.TrimSpace(arg[len("sound:"):])
			if !sound.IsValid(id) {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sound: %s", id)}
			}
			out.Sound = id
			continue
		}
		words = append(words, arg)
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "alarm requires a title"}
	}
	return Command{Type: TypeAlarm, Raw: raw, Alarm: &out}, nil
}

func parseTarget(head string, args []string) (*TargetArgs, error) {
	if len(args) != 1 {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: head + " requires exactly one id"}
	}
	return &TargetArgs{ID: args[0]}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	mode := ""
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}
	switch {
	case len(args) > 1:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme takes at most one argument"}
	case mode != "" && mode != "dark" && mode != "light":
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("theme must be dark or light, got %q", mode)}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Mode: mode}}, nil
}
