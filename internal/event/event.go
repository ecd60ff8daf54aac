// Package event defines the user-facing progress messages shared by the
// library host, the cover cache and the presentation layers.
package event

// Level indicates the severity/type of an event.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// Event is a message meant for the user.
type Event struct {
	Message string
	Level   Level
}

// Func receives events. A nil Func drops them.
type Func func(Event)

// Emit calls f if it is not nil.
func (f Func) Emit(level Level, message string) {
	if f != nil {
		f(Event{Message: message, Level: level})
	}
}
