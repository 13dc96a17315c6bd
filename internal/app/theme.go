package app

import "charm.land/lipgloss/v2"

var (
	headerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	groupStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
	sectionStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sectionActiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	subSectionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	subActiveStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	updatedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
	selectedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	hoverStyle          = lipgloss.NewStyle().Underline(true)
	dividerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	filterPromptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	overlayBorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1)
	wizardSuccessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Bold(true)
	wizardRejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	codeStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("235")).Padding(0, 1)
)
