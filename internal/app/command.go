package app

import "github.com/galihboy/motion-detection/internal/detect"

// Action identifies what a keyboard command does.
type Action int

const (
	ActionQuit Action = iota + 1
	ActionToggleRecording
	ActionSnapshot
	ActionSwitchMethod
	ActionThresholdUp
	ActionThresholdDown
	ActionDecayUp
	ActionDecayDown
)

// Command is a decoded keyboard command. Method is set only for
// ActionSwitchMethod.
type Command struct {
	Action Action
	Method detect.Method
}

const keyEscape = 27

// CommandForKey maps a key code from the display window to a Command.
// Unbound keys return ok=false and are ignored.
func CommandForKey(key int) (Command, bool) {
	switch key {
	case 'q', keyEscape:
		return Command{Action: ActionQuit}, true
	case 'r':
		return Command{Action: ActionToggleRecording}, true
	case 's':
		return Command{Action: ActionSnapshot}, true
	case '1', '2', '3', '4', '5':
		return Command{Action: ActionSwitchMethod, Method: detect.Method(key - '0')}, true
	case '+', '=':
		return Command{Action: ActionThresholdUp}, true
	case '-', '_':
		return Command{Action: ActionThresholdDown}, true
	case 'd':
		return Command{Action: ActionDecayUp}, true
	case 'a':
		return Command{Action: ActionDecayDown}, true
	}
	return Command{}, false
}
