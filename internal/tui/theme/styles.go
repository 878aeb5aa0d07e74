package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles shared across screens.
type Styles struct {
	HeaderTitle lipgloss.Style
	Subtitle    lipgloss.Style
	Muted       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	ModalBox    lipgloss.Style
	Frame       lipgloss.Style
}
