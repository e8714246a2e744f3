package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"goaltracker/internal/engine"
	"goaltracker/internal/storage"
	"goaltracker/internal/ui"
)

// Tracker is the slice of the goal engine the board drives.
type Tracker interface {
	GetGoals(filter engine.Filter) []*storage.Goal
	GetWeekDays(g *storage.Goal) []engine.WeekDay
	GetStats() engine.Stats
	ToggleDayCompletion(ctx context.Context, goalID, date string) (*engine.ToggleResult, error)
	ToggleGoalStatus(ctx context.Context, id string) (*storage.Goal, error)
}

type boardRow struct {
	goal *storage.Goal
	week []engine.WeekDay
}

type boardModel struct {
	ctx context.Context
	svc Tracker

	width  int
	height int

	rows  []boardRow
	stats engine.Stats

	selected  int
	day       int
	dayChosen bool

	lastLog string
	busy    bool
}

type loadedMsg struct {
	rows  []boardRow
	stats engine.Stats
}

type toggledMsg struct {
	res *engine.ToggleResult
	err error
}

type statusMsg struct {
	goal *storage.Goal
	err  error
}

func newBoardModel(ctx context.Context, svc Tracker) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		busy:    true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		var rows []boardRow
		for _, g := range m.svc.GetGoals(engine.FilterAll) {
			if g.Status == string(engine.StatusArchived) {
				continue
			}
			rows = append(rows, boardRow{goal: g, week: m.svc.GetWeekDays(g)})
		}
		return loadedMsg{rows: rows, stats: m.svc.GetStats()}
	}
}

func (m boardModel) toggleCmd(id, date string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleDayCompletion(m.ctx, id, date)
		return toggledMsg{res: res, err: err}
	}
}

func (m boardModel) pauseCmd(id string) tea.Cmd {
	return func() tea.Msg {
		g, err := m.svc.ToggleGoalStatus(m.ctx, id)
		return statusMsg{goal: g, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.busy = false
		m.rows = msg.rows
		m.stats = msg.stats
		if m.selected >= len(m.rows) {
			m.selected = len(m.rows) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		if !m.dayChosen && len(m.rows) > 0 {
			for i, d := range m.rows[0].week {
				if d.Today {
					m.day = i
				}
			}
		}
		return m, nil
	case toggledMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		case msg.res == nil:
			m.lastLog = "Goal not found."
		case msg.res.Completed:
			m.lastLog = fmt.Sprintf("Marked %s done (streak %d).", msg.res.Goal.Name, msg.res.Goal.Streak)
		default:
			m.lastLog = fmt.Sprintf("Unmarked %s (streak %d).", msg.res.Goal.Name, msg.res.Goal.Streak)
		}
		if msg.res != nil {
			for _, ms := range msg.res.NewMilestones {
				m.lastLog += " " + ui.IconTrophy + " " + ms.Name
			}
		}
		m.busy = true
		return m, m.loadCmd()
	case statusMsg:
		m.busy = false
		if msg.err != nil {
			m.lastLog = "Status change failed: " + msg.err.Error()
			return m, nil
		}
		if msg.goal != nil {
			m.lastLog = fmt.Sprintf("%s is now %s.", msg.goal.Name, msg.goal.Status)
		}
		m.busy = true
		return m, m.loadCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
		return m, nil
	case "left", "h":
		if m.day > 0 {
			m.day--
		}
		m.dayChosen = true
		return m, nil
	case "right", "l":
		if m.day < 6 {
			m.day++
		}
		m.dayChosen = true
		return m, nil
	}

	// Everything below calls the engine; one call at a time.
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "r":
		m.busy = true
		m.lastLog = "Refreshed."
		return m, m.loadCmd()
	case "c", " ":
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		d := row.week[m.day]
		if d.Future {
			m.lastLog = "Future days cannot be completed."
			return m, nil
		}
		m.busy = true
		return m, m.toggleCmd(string(row.goal.ID), d.Date)
	case "p":
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.pauseCmd(string(row.goal.ID))
	}
	return m, nil
}

func (m boardModel) current() (boardRow, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return boardRow{}, false
	}
	row := m.rows[m.selected]
	if len(row.week) != 7 {
		return boardRow{}, false
	}
	return row, true
}

func (m boardModel) View() string {
	sidebar := m.renderSidebar()
	main := m.renderMain()

	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	n := len(linesLeft)
	if len(linesRight) > n {
		n = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < n; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return m.renderHeader() + "\n" + body.String() + "\n" + m.lastLog
}

func (m boardModel) renderHeader() string {
	return ui.Heading(ui.IconGoal, fmt.Sprintf("GoalTracker | %d goals | %d%% complete | longest streak %d",
		m.stats.TotalGoals, m.stats.CompletionRate, m.stats.LongestStreak))
}

func (m boardModel) renderSidebar() string {
	lines := []string{
		"Stats",
		fmt.Sprintf("- active: %d", m.stats.ActiveGoals),
		fmt.Sprintf("- completed: %d", m.stats.CompletedGoals),
		fmt.Sprintf("- days logged: %d", m.stats.TotalCompletedDays),
		fmt.Sprintf("- avg: %d%%", m.stats.AverageCompletion),
		"",
		"Keys",
		"- ↑/↓ or j/k: goal",
		"- ←/→ or h/l: day",
		"- c/space: toggle day",
		"- p: pause/resume",
		"- r: refresh",
		"- q: quit",
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.busy && len(m.rows) == 0 {
		return "Loading…"
	}
	out := []string{"This week", "    " + weekHeader(m.day)}
	if len(m.rows) == 0 {
		out = append(out, "(no goals yet: gt add <name>)")
		return strings.Join(out, "\n")
	}
	for i, row := range m.rows {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		cells := make([]string, len(row.week))
		for j, d := range row.week {
			cells[j] = ui.DayCell(d.Label, d.Completed, d.Today, d.Future)
		}
		out = append(out, fmt.Sprintf("%s  %s  %s %s %s",
			cursor,
			strings.Join(cells, " "),
			ui.StatusIcon(row.goal.Status),
			row.goal.Name,
			ui.Muted.Render(fmt.Sprintf("%s%d", ui.IconFire, row.goal.Streak)),
		))
		out = append(out, "      "+ui.ProgressBar(engine.CalculateCompletion(row.goal), 14))
	}
	return strings.Join(out, "\n")
}

func weekHeader(selected int) string {
	labels := []string{"M", "T", "W", "T", "F", "S", "S"}
	for i := range labels {
		if i == selected {
			labels[i] = ui.Key.Render(labels[i])
		}
	}
	return strings.Join(labels, " ")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
