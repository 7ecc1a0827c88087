package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/chungwong/snakey/internal/sim"
)

// Command is what a key press asks the game loop to do.
type Command int

const (
	CommandNone Command = iota
	CommandSteer
	CommandPause
	CommandQuit
)

// String returns a human-readable command name.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandSteer:
		return "steer"
	case CommandPause:
		return "pause"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// KeyCommand maps a key event to a command. Steering keys also return their intent.
func KeyCommand(ev *tcell.EventKey) (Command, sim.Intent) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit, sim.IntentNone

	case tcell.KeyUp:
		return CommandSteer, sim.IntentUp
	case tcell.KeyDown:
		return CommandSteer, sim.IntentDown
	case tcell.KeyLeft:
		return CommandSteer, sim.IntentLeft
	case tcell.KeyRight:
		return CommandSteer, sim.IntentRight

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return CommandQuit, sim.IntentNone
		case 'p', 'P', ' ':
			return CommandPause, sim.IntentNone
		case 'w', 'W':
			return CommandSteer, sim.IntentUp
		case 's', 'S':
			return CommandSteer, sim.IntentDown
		case 'a', 'A':
			return CommandSteer, sim.IntentLeft
		case 'd', 'D':
			return CommandSteer, sim.IntentRight
		}
	}
	return CommandNone, sim.IntentNone
}
