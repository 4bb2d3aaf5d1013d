package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style

	// List rows
	Selected   lipgloss.Style
	Unselected lipgloss.Style

	Panel      lipgloss.Style
	ModalTitle lipgloss.Style
	ModalBody  lipgloss.Style
	Button     lipgloss.Style

	// Settings rows
	Label lipgloss.Style
	Value lipgloss.Style

	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style

	HintKey  lipgloss.Style
	HintDesc lipgloss.Style
}
