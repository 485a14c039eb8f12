package organisms

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu        // revise menu open
	ModeDialog      // acknowledgement dialog open
	ModeHelp        // help overlay shown
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeDialog:
		return "dialog"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}
