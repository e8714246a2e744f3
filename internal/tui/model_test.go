package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"goaltracker/internal/engine"
	"goaltracker/internal/logging"
	"goaltracker/internal/storage"
)

// Wednesday.
var boardNow = time.Date(2026, 10, 21, 8, 0, 0, 0, time.UTC)

func newTestBoard(t *testing.T) (boardModel, *engine.Service) {
	t.Helper()
	ctx := context.Background()
	backend, err := storage.NewSQLiteBackend(ctx, filepath.Join(t.TempDir(), "tui.db"), logging.Nop())
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	store := storage.NewStore(backend, logging.Nop(), storage.WithClock(func() time.Time { return boardNow }))
	svc, err := engine.NewService(ctx, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.CreateGoal(ctx, engine.GoalInput{Name: "Stretch"}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	m := newBoardModel(ctx, svc)
	return step(t, m, m.Init()), svc
}

// step runs cmd synchronously and feeds its message back into the model.
func step(t *testing.T, m boardModel, cmd tea.Cmd) boardModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(boardModel)
}

func press(t *testing.T, m boardModel, key string) (boardModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(boardModel), cmd
}

func TestBoardLoadsAndSelectsToday(t *testing.T) {
	m, _ := newTestBoard(t)
	if len(m.rows) != 1 {
		t.Fatalf("rows=%d, want 1", len(m.rows))
	}
	if m.day != 2 {
		t.Fatalf("day column=%d, want 2 (Wednesday)", m.day)
	}
	if m.busy {
		t.Fatalf("board must be idle after load")
	}
}

func TestBoardToggleDay(t *testing.T) {
	m, svc := newTestBoard(t)

	m, cmd := press(t, m, "c")
	if cmd == nil {
		t.Fatalf("expected toggle command")
	}
	m = step(t, m, cmd) // toggled
	m = step(t, m, m.loadCmd())

	goals := svc.GetGoals(engine.FilterAll)
	if len(goals[0].History) != 1 || goals[0].History[0] != "2026-10-21" {
		t.Fatalf("history=%v", goals[0].History)
	}
	if !m.rows[0].week[2].Completed {
		t.Fatalf("board did not refresh the week")
	}
}

func TestBoardRefusesFutureDay(t *testing.T) {
	m, _ := newTestBoard(t)
	m, _ = press(t, m, "right")
	m, cmd := press(t, m, "c")
	if cmd != nil {
		t.Fatalf("future day must not produce an engine call")
	}
	if m.lastLog != "Future days cannot be completed." {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
}

func TestBoardPause(t *testing.T) {
	m, svc := newTestBoard(t)
	m, cmd := press(t, m, "p")
	m = step(t, m, cmd)
	_ = step(t, m, m.loadCmd())

	if got := svc.GetGoals(engine.FilterAll)[0].Status; got != "paused" {
		t.Fatalf("status=%q, want paused", got)
	}
}
