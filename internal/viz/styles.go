package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	treeStyle   = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	haltedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)

	typeColors = map[string]lipgloss.Style{
		"root":       lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		"trunk":      lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		"branch":     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		"leaf":       lipgloss.NewStyle().Foreground(lipgloss.Color("83")),
		"terminal":   lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		"elementary": lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)
