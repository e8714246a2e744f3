package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GoalTracker theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconGoal    = "🎯"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconFire    = "🔥"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconBox     = "📦"
	IconPause   = "⏸️"
	IconChart   = "📊"
	IconCalend  = "📅"
	IconUser    = "👤"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeMilestone = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("MILESTONE")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "completed":
		return Good.Render("completed")
	case "active":
		return H2.Render("active")
	case "paused":
		return Warn.Render("paused")
	default:
		return Muted.Render(status)
	}
}

func StatusIcon(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed":
		return IconDone
	case "paused":
		return IconPause
	case "archived":
		return IconBox
	default:
		return IconGoal
	}
}

func PriorityText(priority string) string {
	switch priority {
	case "high":
		return Bad.Render("high")
	case "medium":
		return Warn.Render("medium")
	default:
		return Muted.Render(priority)
	}
}

// ProgressBar renders pct (0..100) as a bar of width cells, colored by the
// same good/fair/poor bands as the completion chart.
func ProgressBar(pct int, width int) string {
	if width <= 0 {
		width = 10
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := Bad
	switch {
	case pct >= 75:
		style = Good
	case pct >= 50:
		style = Warn
	}
	return style.Render(bar) + Muted.Render(fmt.Sprintf(" %3d%%", pct))
}

// DayCell renders one day of the weekly check-in grid.
func DayCell(label string, completed, today, future bool) string {
	switch {
	case completed:
		return Good.Render("●")
	case future:
		return Dim.Render("·")
	case today:
		return Gold.Render(label)
	default:
		return Muted.Render("○")
	}
}
