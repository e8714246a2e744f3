package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"goaltracker/internal/logging"
	"goaltracker/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	backend, err := storage.NewSQLiteBackend(ctx, path, logging.Nop())
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	clock := &testClock{t: monday}
	store := storage.NewStore(backend, logging.Nop(), storage.WithClock(clock.Now), storage.WithTimezone("UTC"))
	svc, err := NewService(ctx, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, clock
}

func intp(n int) *int { return &n }

func mustCreate(t *testing.T, svc *Service, name string, target int) *storage.Goal {
	t.Helper()
	g, err := svc.CreateGoal(context.Background(), GoalInput{Name: name, Target: intp(target)})
	if err != nil {
		t.Fatalf("CreateGoal(%q): %v", name, err)
	}
	return g
}

func mustToggle(t *testing.T, svc *Service, id, date string) *ToggleResult {
	t.Helper()
	res, err := svc.ToggleDayCompletion(context.Background(), id, date)
	if err != nil {
		t.Fatalf("ToggleDayCompletion(%s): %v", date, err)
	}
	if res == nil {
		t.Fatalf("ToggleDayCompletion(%s): goal %s not found", date, id)
	}
	return res
}

func milestoneTargets(g *storage.Goal) []int {
	out := make([]int, len(g.Milestones))
	for i, m := range g.Milestones {
		out[i] = m.Target
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateGoalDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, GoalInput{Name: "  Read  ", Category: "learning"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if g.Name != "Read" || g.Target != DefaultTarget || g.Priority != string(PriorityMedium) {
		t.Fatalf("unexpected defaults: %+v", g)
	}
	if g.Status != string(StatusActive) || g.Streak != 0 || len(g.History) != 0 {
		t.Fatalf("new goal must be active with empty history: %+v", g)
	}
	if g.ID == "" {
		t.Fatalf("expected generated id")
	}

	second := mustCreate(t, svc, "Run", 5)
	goals := svc.GetGoals(FilterAll)
	if len(goals) != 2 || goals[0].ID != second.ID {
		t.Fatalf("new goals must be inserted first, got %v", goals)
	}
	if second.ID == g.ID {
		t.Fatalf("ids must be unique")
	}

	reopened, err := NewService(ctx, svc.Store())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n := len(reopened.GetGoals(FilterAll)); n != 2 {
		t.Fatalf("persisted goals=%d, want 2", n)
	}
}

func TestGenerateMilestones(t *testing.T) {
	tests := []struct {
		target int
		want   []int
	}{
		{target: 1, want: []int{1}},
		{target: 2, want: []int{2}},
		{target: 3, want: []int{3, 6}},
		{target: 6, want: []int{6, 12}},
		{target: 7, want: []int{3, 7, 30}},
		{target: 14, want: []int{3, 7, 30}},
	}
	for _, tt := range tests {
		g := &storage.Goal{Milestones: GenerateMilestones(tt.target)}
		if got := milestoneTargets(g); !equalInts(got, tt.want) {
			t.Fatalf("GenerateMilestones(%d)=%v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestCreateGoalValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    GoalInput
		field string
	}{
		{"blank name", GoalInput{Name: "   "}, "name"},
		{"zero target", GoalInput{Name: "x", Target: intp(0)}, "target"},
		{"negative target", GoalInput{Name: "x", Target: intp(-2)}, "target"},
		{"bad priority", GoalInput{Name: "x", Priority: "urgent"}, "priority"},
	}
	for _, tc := range cases {
		_, err := svc.CreateGoal(ctx, tc.in)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%s: field=%q, want %q", tc.name, ve.Field, tc.field)
		}
	}
	if n := len(svc.GetGoals(FilterAll)); n != 0 {
		t.Fatalf("failed creates must not add goals, have %d", n)
	}
}

func TestParseTarget(t *testing.T) {
	if ParseTarget("") != nil || ParseTarget("abc") != nil {
		t.Fatalf("non-numeric targets must yield nil")
	}
	if got := ParseTarget(" 5 "); got == nil || *got != 5 {
		t.Fatalf("ParseTarget(5)=%v", got)
	}
	if got := ParseTarget("0"); got == nil || *got != 0 {
		t.Fatalf("ParseTarget(0) must keep the number for validation")
	}
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		want    int
	}{
		{"empty", nil, 0},
		{"single", []string{"2026-10-19"}, 1},
		{"run ending before today", []string{"2026-10-16", "2026-10-17", "2026-10-18"}, 3},
		{"gap stops the walk", []string{"2026-10-19", "2026-10-18", "2026-10-16"}, 2},
		{"unsorted", []string{"2026-10-17", "2026-10-19", "2026-10-18"}, 3},
		{"duplicates and times", []string{"2026-10-18T23:59:00Z", "2026-10-18", "2026-10-17"}, 2},
		{"unparsable entries ignored", []string{"junk", "2026-10-19"}, 1},
		{"month boundary", []string{"2026-09-30", "2026-10-01"}, 2},
	}
	for _, tt := range tests {
		if got := CalculateStreak(tt.history); got != tt.want {
			t.Fatalf("%s: CalculateStreak=%d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCalculateCompletion(t *testing.T) {
	tests := []struct {
		done, target, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{9, 3, 100},
	}
	for _, tt := range tests {
		history := make([]string, tt.done)
		for i := range history {
			history[i] = FormatDate(monday.AddDate(0, 0, -i))
		}
		g := &storage.Goal{Target: tt.target, History: history}
		if got := CalculateCompletion(g); got != tt.want {
			t.Fatalf("CalculateCompletion(%d/%d)=%d, want %d", tt.done, tt.target, got, tt.want)
		}
	}
}

func TestCompletionCountsDistinctDays(t *testing.T) {
	g := &storage.Goal{
		Target:     4,
		History:    []string{"2024-03-05", "2024-03-05T10:00:00Z", "2024-03-04", "garbage"},
		Milestones: GenerateMilestones(4),
	}
	if got := CompletedDays(g); got != 2 {
		t.Fatalf("CompletedDays=%d, want 2", got)
	}
	if got := CalculateCompletion(g); got != 50 {
		t.Fatalf("CalculateCompletion=%d, want 50", got)
	}

	svc, _ := newTestService(t)
	if newly := svc.checkMilestones(g); len(newly) != 0 {
		t.Fatalf("duplicate day must not reach a 4-day milestone: %+v", newly)
	}
}

func TestToggleDayCompletionRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	g := mustCreate(t, svc, "Stretch", 5)

	res := mustToggle(t, svc, string(g.ID), "2026-10-18")
	if !res.Completed || len(res.Goal.History) != 1 || res.Goal.Streak != 1 {
		t.Fatalf("first toggle: %+v", res.Goal)
	}
	res = mustToggle(t, svc, string(g.ID), "2026-10-19")
	if res.Goal.Streak != 2 {
		t.Fatalf("streak=%d, want 2", res.Goal.Streak)
	}

	res = mustToggle(t, svc, string(g.ID), "2026-10-19")
	if res.Completed {
		t.Fatalf("second toggle of the same day must remove it")
	}
	if len(res.Goal.History) != 1 || res.Goal.History[0] != "2026-10-18" {
		t.Fatalf("history not restored: %v", res.Goal.History)
	}
	if res.Goal.Streak != 1 {
		t.Fatalf("streak=%d, want 1", res.Goal.Streak)
	}

	// A timestamped form of a recorded day counts as the same day.
	res = mustToggle(t, svc, string(g.ID), "2026-10-18T07:00:00Z")
	if res.Completed || len(res.Goal.History) != 0 {
		t.Fatalf("expected removal, got %+v", res.Goal.History)
	}
}

func TestToggleDayCompletionRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := mustCreate(t, svc, "Walk", 3)

	for _, date := range []string{"2026-10-20", "yesterday", "2026-13-01"} {
		_, err := svc.ToggleDayCompletion(ctx, string(g.ID), date)
		if !IsValidation(err) {
			t.Fatalf("date %q: expected ValidationError, got %v", date, err)
		}
	}
	if got := svc.GetGoal(string(g.ID)); len(got.History) != 0 {
		t.Fatalf("rejected toggles must not touch history: %v", got.History)
	}

	res, err := svc.ToggleDayCompletion(ctx, "missing", "2026-10-19")
	if err != nil || res != nil {
		t.Fatalf("unknown goal: res=%v err=%v, want nil, nil", res, err)
	}
}

func TestMilestonesAreSticky(t *testing.T) {
	svc, clock := newTestService(t)
	g := mustCreate(t, svc, "Journal", 3)
	id := string(g.ID)

	mustToggle(t, svc, id, "2026-10-17")
	mustToggle(t, svc, id, "2026-10-18")
	res := mustToggle(t, svc, id, "2026-10-19")
	if len(res.NewMilestones) != 1 || res.NewMilestones[0].Name != "First week" {
		t.Fatalf("expected First week milestone, got %+v", res.NewMilestones)
	}
	first := res.Goal.Milestones[0]
	if !first.Achieved || first.AchievedDate != "2026-10-19" {
		t.Fatalf("milestone=%+v", first)
	}
	if res.Goal.Milestones[1].Achieved {
		t.Fatalf("two-week milestone must not be achieved yet")
	}

	clock.t = monday.AddDate(0, 0, 2)
	res = mustToggle(t, svc, id, "2026-10-19")
	if len(res.Goal.History) != 2 {
		t.Fatalf("history=%v", res.Goal.History)
	}
	if m := res.Goal.Milestones[0]; !m.Achieved || m.AchievedDate != "2026-10-19" {
		t.Fatalf("achievement must survive history shrinking: %+v", m)
	}
	res = mustToggle(t, svc, id, "2026-10-19")
	if len(res.NewMilestones) != 0 {
		t.Fatalf("re-crossing a threshold must not re-announce: %+v", res.NewMilestones)
	}
	if m := res.Goal.Milestones[0]; m.AchievedDate != "2026-10-19" {
		t.Fatalf("achievedDate overwritten: %q", m.AchievedDate)
	}
}

func TestUpdateGoalsStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	done := mustCreate(t, svc, "Once", 1)
	paused := mustCreate(t, svc, "Paused", 1)
	mustToggle(t, svc, string(done.ID), "2026-10-19")
	mustToggle(t, svc, string(paused.ID), "2026-10-19")
	if _, err := svc.ToggleGoalStatus(ctx, string(paused.ID)); err != nil {
		t.Fatalf("pause: %v", err)
	}

	if got := svc.GetGoal(string(done.ID)).Status; got != string(StatusActive) {
		t.Fatalf("toggling must not change status, got %q", got)
	}

	n, err := svc.UpdateGoalsStatus(ctx)
	if err != nil || n != 1 {
		t.Fatalf("UpdateGoalsStatus=%d, %v; want 1", n, err)
	}
	if got := svc.GetGoal(string(done.ID)).Status; got != string(StatusCompleted) {
		t.Fatalf("status=%q, want completed", got)
	}
	if got := svc.GetGoal(string(paused.ID)).Status; got != string(StatusPaused) {
		t.Fatalf("paused goals are not auto-completed, got %q", got)
	}
	if n, _ := svc.UpdateGoalsStatus(ctx); n != 0 {
		t.Fatalf("second run changed %d goals", n)
	}
	if got := svc.GetGoals(FilterCompleted); len(got) != 1 {
		t.Fatalf("completed filter returned %d", len(got))
	}
}

func TestUpdateAndDeleteGoal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := mustCreate(t, svc, "Cook", 3)

	name, priority := "Cook dinner", "high"
	updated, err := svc.UpdateGoal(ctx, string(g.ID), GoalPatch{Name: &name, Priority: &priority, Target: intp(4)})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if updated.Name != name || updated.Priority != "high" || updated.Target != 4 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if got := milestoneTargets(updated); !equalInts(got, []int{3, 6}) {
		t.Fatalf("milestones must not be regenerated, got %v", got)
	}

	blank := " "
	if _, err := svc.UpdateGoal(ctx, string(g.ID), GoalPatch{Name: &blank}); !IsValidation(err) {
		t.Fatalf("blank name: expected ValidationError, got %v", err)
	}

	missing, err := svc.UpdateGoal(ctx, "nope", GoalPatch{Name: &name})
	if err != nil || missing != nil {
		t.Fatalf("unknown id: %v, %v", missing, err)
	}

	ok, err := svc.DeleteGoal(ctx, "nope")
	if err != nil || ok {
		t.Fatalf("DeleteGoal(unknown)=%v, %v", ok, err)
	}
	ok, err = svc.DeleteGoal(ctx, string(g.ID))
	if err != nil || !ok {
		t.Fatalf("DeleteGoal=%v, %v", ok, err)
	}
	if svc.GetGoal(string(g.ID)) != nil {
		t.Fatalf("goal still present after delete")
	}
}

func TestToggleGoalStatusAndArchive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := mustCreate(t, svc, "Yoga", 3)
	id := string(g.ID)

	steps := []Status{StatusPaused, StatusActive}
	for _, want := range steps {
		got, err := svc.ToggleGoalStatus(ctx, id)
		if err != nil {
			t.Fatalf("ToggleGoalStatus: %v", err)
		}
		if got.Status != string(want) {
			t.Fatalf("status=%q, want %q", got.Status, want)
		}
	}

	archived, err := svc.ArchiveGoal(ctx, id)
	if err != nil || archived.Status != string(StatusArchived) {
		t.Fatalf("ArchiveGoal=%v, %v", archived, err)
	}
	same, err := svc.ToggleGoalStatus(ctx, id)
	if err != nil || same.Status != string(StatusArchived) {
		t.Fatalf("archived goals are not toggled: %v, %v", same, err)
	}
	if got := svc.GetGoals(FilterArchived); len(got) != 1 {
		t.Fatalf("archived filter returned %d", len(got))
	}
	if got := svc.GetGoals(FilterActive); len(got) != 0 {
		t.Fatalf("active filter returned %d", len(got))
	}
}

func TestGetStats(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustCreate(t, svc, "A", 3)
	b := mustCreate(t, svc, "B", 5)
	for _, d := range []string{"2026-10-18", "2026-10-19"} {
		mustToggle(t, svc, string(a.ID), d)
	}
	for _, d := range []string{"2026-10-15", "2026-10-16", "2026-10-17", "2026-10-18", "2026-10-19"} {
		mustToggle(t, svc, string(b.ID), d)
	}

	st := svc.GetStats()
	want := Stats{
		TotalGoals:         2,
		ActiveGoals:        2,
		CompletionRate:     88,
		TotalCompletedDays: 7,
		LongestStreak:      5,
		AverageCompletion:  84,
	}
	if st != want {
		t.Fatalf("GetStats=%+v, want %+v", st, want)
	}

	empty, _ := newTestService(t)
	if st := empty.GetStats(); st != (Stats{}) {
		t.Fatalf("empty stats=%+v", st)
	}
}

func TestCategoryDistribution(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, in := range []GoalInput{
		{Name: "a", Category: "health"},
		{Name: "b", Category: "Health"},
		{Name: "c", Category: "finance"},
		{Name: "d", Category: "hobbies"},
	} {
		if _, err := svc.CreateGoal(ctx, in); err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
	}
	dist := svc.GetCategoryDistribution()
	if dist["Health & Fitness"] != 2 || dist["Financial"] != 1 || dist["hobbies"] != 1 {
		t.Fatalf("distribution=%v", dist)
	}
}

func TestGetCompletionHistory(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustCreate(t, svc, "A", 7)
	b := mustCreate(t, svc, "B", 7)
	mustToggle(t, svc, string(a.ID), "2026-10-19")
	mustToggle(t, svc, string(b.ID), "2026-10-19")
	mustToggle(t, svc, string(a.ID), "2026-10-13")
	mustToggle(t, svc, string(a.ID), "2026-10-12")

	h := svc.GetCompletionHistory(7)
	if len(h) != 7 {
		t.Fatalf("len=%d", len(h))
	}
	if h[0].Date != "2026-10-13" || h[0].Day != "Tue" || h[0].Completions != 1 {
		t.Fatalf("oldest bucket=%+v", h[0])
	}
	if h[6].Date != "2026-10-19" || h[6].Day != "Mon" || h[6].Completions != 2 {
		t.Fatalf("today bucket=%+v", h[6])
	}
	if len(svc.GetCompletionHistory(0)) != 0 {
		t.Fatalf("zero days must be empty")
	}
}

func TestGetWeekDays(t *testing.T) {
	svc, clock := newTestService(t)
	g := mustCreate(t, svc, "Swim", 3)
	clock.t = monday.AddDate(0, 0, 2)
	mustToggle(t, svc, string(g.ID), "2026-10-19")

	days := svc.GetWeekDays(svc.GetGoal(string(g.ID)))
	if len(days) != 7 {
		t.Fatalf("len=%d", len(days))
	}
	if days[0].Date != "2026-10-19" || days[0].Label != "M" || !days[0].Completed {
		t.Fatalf("monday=%+v", days[0])
	}
	if !days[2].Today || days[2].Future {
		t.Fatalf("wednesday=%+v", days[2])
	}
	for _, d := range days[3:] {
		if !d.Future || d.Today {
			t.Fatalf("%s should be future: %+v", d.Date, d)
		}
	}
	if days[6].Date != "2026-10-25" || days[6].Label != "S" {
		t.Fatalf("sunday=%+v", days[6])
	}
}

func TestGetAchievements(t *testing.T) {
	svc, clock := newTestService(t)

	clock.t = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	old := mustCreate(t, svc, "Old", 1)
	mustToggle(t, svc, string(old.ID), "2026-09-01")

	clock.t = monday
	g := mustCreate(t, svc, "Daily walk", 7)
	for d := 13; d <= 19; d++ {
		mustToggle(t, svc, string(g.ID), time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC).Format(DateLayout))
	}

	week := svc.GetAchievements(WindowWeek)
	if len(week) != 3 {
		t.Fatalf("week achievements=%+v", week)
	}
	var streaks int
	for _, a := range week {
		if a.Type == AchievementStreak {
			streaks++
			if a.Title != "7-Day Streak!" || a.Date != "2026-10-19" {
				t.Fatalf("streak entry=%+v", a)
			}
		}
	}
	if streaks != 1 {
		t.Fatalf("streak entries=%d", streaks)
	}

	all := svc.GetAchievements(WindowAll)
	if len(all) != 4 {
		t.Fatalf("all achievements=%d", len(all))
	}
	if last := all[len(all)-1]; last.Date != "2026-09-01" || last.Title != "Milestone Achieved: First completion" {
		t.Fatalf("oldest entry must sort last: %+v", last)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Date < all[i].Date {
			t.Fatalf("not newest first: %v", all)
		}
	}
}

func TestGetUpcomingDeadlines(t *testing.T) {
	svc, _ := newTestService(t)
	g := mustCreate(t, svc, "Read", 7)
	mustToggle(t, svc, string(g.ID), "2026-10-19")

	got := svc.GetUpcomingDeadlines()
	if len(got) != 2 {
		t.Fatalf("deadlines=%+v", got)
	}
	if got[0].Milestone != "3-day streak" || got[0].Remaining != 2 || got[0].Priority != PriorityHigh {
		t.Fatalf("first=%+v", got[0])
	}
	if got[1].Milestone != "7-day streak" || got[1].Remaining != 6 || got[1].Priority != PriorityLow {
		t.Fatalf("second=%+v", got[1])
	}
}

func TestNewServiceRecomputesCachedStreaks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	store := svc.Store()

	doc := store.DefaultDocument()
	doc.Goals = []*storage.Goal{{
		ID: "g", Name: "Stale", Target: 10, Status: "active", Streak: 42,
		History: []string{"2026-10-18", "2026-10-19"},
	}}
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh, err := NewService(ctx, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if got := fresh.GetGoal("g").Streak; got != 2 {
		t.Fatalf("streak=%d, want 2", got)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, ProfileInput{Name: "Ada", Email: "not-an-email"}); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, ProfileInput{Email: "a@b.co"}); !IsValidation(err) {
		t.Fatalf("missing name: expected ValidationError, got %v", err)
	}

	u, err := svc.UpdateProfile(ctx, ProfileInput{Name: "Ada King Lovelace", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Avatar != "AL" || u.Role != "premium" || u.UpdatedAt == nil {
		t.Fatalf("profile=%+v", u)
	}
	if svc.Profile().Email != "ada@example.com" {
		t.Fatalf("profile not stored")
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"":                  "PU",
		"   ":               "PU",
		"grace":             "GR",
		"Grace Hopper":      "GH",
		"mary  ann   evans": "ME",
		"é":                 "É",
	}
	for in, want := range tests {
		if got := Initials(in); got != want {
			t.Fatalf("Initials(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestSettings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := "neon"
	if _, err := svc.UpdateSettings(ctx, SettingsPatch{Theme: &bad}); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	badTime := "9am"
	if _, err := svc.UpdateSettings(ctx, SettingsPatch{NotificationTime: &badTime}); !IsValidation(err) {
		t.Fatalf("expected ValidationError for time, got %v", err)
	}

	theme, freq, off := "dark", "daily", false
	st, err := svc.UpdateSettings(ctx, SettingsPatch{Theme: &theme, BackupFrequency: &freq, Notifications: &off})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if st.Theme != "dark" || st.BackupFrequency != "daily" || st.Notifications || st.WeekStartsOn != "monday" {
		t.Fatalf("settings=%+v", st)
	}

	st, err = svc.ResetSettings(ctx)
	if err != nil || st.Theme != "auto" || st.BackupFrequency != "weekly" {
		t.Fatalf("ResetSettings=%+v, %v", st, err)
	}
}

func TestRecordVisitAndDaysActive(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	welcome, err := svc.RecordVisit(ctx)
	if err != nil || !welcome {
		t.Fatalf("first visit: %v, %v", welcome, err)
	}
	clock.t = monday.Add(3 * time.Hour)
	if welcome, _ := svc.RecordVisit(ctx); welcome {
		t.Fatalf("same-day visit must not welcome")
	}
	clock.t = monday.Add(3*time.Hour + 25*time.Hour)
	if welcome, _ := svc.RecordVisit(ctx); !welcome {
		t.Fatalf("visit after a day must welcome")
	}
	if got := svc.DaysActive(); got != 1 {
		t.Fatalf("DaysActive=%d, want 1", got)
	}
}

func TestAutoBackupImportAndReset(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	g := mustCreate(t, svc, "Keep", 3)

	did, err := svc.AutoBackup(ctx)
	if err != nil || !did {
		t.Fatalf("first AutoBackup=%v, %v", did, err)
	}
	if did, _ := svc.AutoBackup(ctx); did {
		t.Fatalf("backup must not repeat inside the interval")
	}
	clock.t = monday.AddDate(0, 0, 7)
	if did, _ := svc.AutoBackup(ctx); !did {
		t.Fatalf("weekly backup due after seven days")
	}
	dates, err := svc.ListBackups(ctx)
	if err != nil || len(dates) != 2 || dates[0] != "2026-10-26" {
		t.Fatalf("ListBackups=%v, %v", dates, err)
	}

	err = svc.ImportSnapshot(ctx, []byte(`{"goals": "not-an-array"}`))
	if !errors.Is(err, storage.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if svc.GetGoal(string(g.ID)) == nil {
		t.Fatalf("failed import must keep goals")
	}

	exported, err := svc.ExportSnapshot(ctx)
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n := len(svc.GetGoals(FilterAll)); n != 0 {
		t.Fatalf("goals after reset=%d", n)
	}
	if err := svc.ImportSnapshot(ctx, exported); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}
	if svc.GetGoal(string(g.ID)) == nil {
		t.Fatalf("import did not restore goal")
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := svc.RestoreBackup(ctx, "2026-10-19"); err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if svc.GetGoal(string(g.ID)) == nil {
		t.Fatalf("restore did not bring goal back")
	}

	stats, err := svc.AppStats(ctx)
	if err != nil || stats.Version != storage.CurrentVersion || stats.BackupsKept != 2 || stats.Stats.TotalGoals != 1 {
		t.Fatalf("AppStats=%+v, %v", stats, err)
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseFilter("Completed") != FilterCompleted || ParseFilter("weird") != FilterAll {
		t.Fatalf("ParseFilter")
	}
	if ParsePriority("") != DefaultPriority || ParsePriority("HIGH") != PriorityHigh || ParsePriority("x") != "" {
		t.Fatalf("ParsePriority")
	}
	if ParseCategory("Fitness") != CategoryHealth || ParseCategory("Hobbies") != "Hobbies" {
		t.Fatalf("ParseCategory")
	}
	if ParseWindow("month") != WindowMonth || ParseWindow("") != WindowWeek {
		t.Fatalf("ParseWindow")
	}
}
