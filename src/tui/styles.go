package tui

import "github.com/charmbracelet/lipgloss"

// StyleConfig holds the customizable colors for the analysis browser.
type StyleConfig struct {
	PrimaryBlue    lipgloss.Color
	AccentBlue     lipgloss.Color
	CardBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color
	SelectedColor  lipgloss.Color
	ErrorRed       lipgloss.Color
	SuccessGreen   lipgloss.Color
	WarningYellow  lipgloss.Color
}

// DefaultStyles returns the default color palette.
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		AccentBlue:     lipgloss.Color("#4285F4"),
		CardBackground: lipgloss.Color("#2D2D2D"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		SelectedColor:  lipgloss.Color("#303134"),
		ErrorRed:       lipgloss.Color("#EA4335"),
		SuccessGreen:   lipgloss.Color("#34A853"),
		WarningYellow:  lipgloss.Color("#FBBC04"),
	}
}

// TitleStyle returns the title style.
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns the help-line style.
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// PanelStyle returns the bordered panel style.
func (s *StyleConfig) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.BorderColor)
}

// ConfidenceColor picks a color band for a 0-100 confidence score.
func (s *StyleConfig) ConfidenceColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return s.SuccessGreen
	case score >= 50:
		return s.WarningYellow
	default:
		return s.ErrorRed
	}
}
