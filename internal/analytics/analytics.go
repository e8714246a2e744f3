// Package analytics derives read-only reports from the goal engine's state.
package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"goaltracker/internal/engine"
	"goaltracker/internal/storage"
)

// ErrUnknownFormat is returned by ExportAnalytics for formats other than
// json and csv.
var ErrUnknownFormat = errors.New("unknown export format")

const (
	FormatJSON = "json"
	FormatCSV  = "csv"

	trendDays = 7
)

// GoalSource is the part of the goal engine analytics reads from.
type GoalSource interface {
	GetStats() engine.Stats
	GetCategoryDistribution() map[string]int
	GetCompletionHistory(days int) []engine.DayCompletions
	GetGoals(filter engine.Filter) []*storage.Goal
	Now() time.Time
}

// Engine never writes; every call recomputes from the source.
type Engine struct {
	goals GoalSource
}

func New(goals GoalSource) *Engine {
	return &Engine{goals: goals}
}

type ProductiveDay struct {
	Day         string `json:"day"`
	Completions int    `json:"completions"`
}

type Analytics struct {
	engine.Stats
	ConsistencyScore     int                     `json:"consistencyScore"`
	MostProductiveDay    *ProductiveDay          `json:"mostProductiveDay"`
	CategoryDistribution map[string]int          `json:"categoryDistribution"`
	WeeklyTrend          []engine.DayCompletions `json:"weeklyTrend"`
}

func (e *Engine) OverallAnalytics() Analytics {
	history := e.goals.GetCompletionHistory(trendDays)
	goalCount := len(e.goals.GetGoals(engine.FilterAll))

	return Analytics{
		Stats:                e.goals.GetStats(),
		ConsistencyScore:     consistencyScore(history, goalCount),
		MostProductiveDay:    mostProductiveDay(history),
		CategoryDistribution: e.goals.GetCategoryDistribution(),
		WeeklyTrend:          history,
	}
}

func consistencyScore(history []engine.DayCompletions, goalCount int) int {
	possible := goalCount * len(history)
	if possible == 0 {
		return 0
	}
	done := 0
	for _, d := range history {
		done += d.Completions
	}
	return int(math.Round(100 * float64(done) / float64(possible)))
}

// mostProductiveDay sums completions per weekday label. Ties go to the label
// seen first in the window, so an all-zero week still yields a day.
func mostProductiveDay(history []engine.DayCompletions) *ProductiveDay {
	var order []string
	totals := make(map[string]int)
	for _, d := range history {
		if _, seen := totals[d.Day]; !seen {
			order = append(order, d.Day)
		}
		totals[d.Day] += d.Completions
	}
	if len(order) == 0 {
		return nil
	}
	best := order[0]
	for _, day := range order[1:] {
		if totals[day] > totals[best] {
			best = day
		}
	}
	return &ProductiveDay{Day: best, Completions: totals[best]}
}

// ConsistencyTrend is the per-day completion series for the last days days.
func (e *Engine) ConsistencyTrend(days int) []engine.DayCompletions {
	return e.goals.GetCompletionHistory(days)
}

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

type GoalRate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Completion int    `json:"completion"`
	Band       Band   `json:"band"`
}

// GoalCompletionRates reports completion for each active goal.
func (e *Engine) GoalCompletionRates() []GoalRate {
	goals := e.goals.GetGoals(engine.FilterActive)
	out := make([]GoalRate, 0, len(goals))
	for _, g := range goals {
		c := engine.CalculateCompletion(g)
		out = append(out, GoalRate{ID: string(g.ID), Name: g.Name, Completion: c, Band: bandFor(c)})
	}
	return out
}

func bandFor(completion int) Band {
	switch {
	case completion >= 75:
		return BandGood
	case completion >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

type Performance struct {
	Consistency       string `json:"consistency"`
	Streak            string `json:"streak"`
	AverageCompletion string `json:"averageCompletion"`
}

type Report struct {
	Generated       string      `json:"generated"`
	Summary         string      `json:"summary"`
	Performance     Performance `json:"performance"`
	Recommendations []string    `json:"recommendations"`
	DetailedStats   Analytics   `json:"detailedStats"`
}

func (e *Engine) GenerateReport() Report {
	a := e.OverallAnalytics()
	return Report{
		Generated: e.goals.Now().Format("Monday, January 2, 2006"),
		Summary:   fmt.Sprintf("You have %d goals with an overall completion rate of %d%%.", a.TotalGoals, a.CompletionRate),
		Performance: Performance{
			Consistency:       fmt.Sprintf("%d%% consistency score", a.ConsistencyScore),
			Streak:            fmt.Sprintf("%d day longest streak", a.LongestStreak),
			AverageCompletion: fmt.Sprintf("%d%% average completion", a.AverageCompletion),
		},
		Recommendations: Recommendations(a),
		DetailedStats:   a,
	}
}

// Recommendations applies the fixed advice rules in order. Any subset may fire.
func Recommendations(a Analytics) []string {
	recs := []string{}
	if a.ConsistencyScore < 50 {
		recs = append(recs, "Try to be more consistent with your daily goals")
	}
	if a.AverageCompletion < 50 {
		recs = append(recs, "Consider adjusting goal targets if they feel too ambitious")
	}
	switch {
	case a.ActiveGoals == 0:
		recs = append(recs, "Add some goals to get started!")
	case a.ActiveGoals > 10:
		recs = append(recs, "You might want to focus on fewer goals at once")
	}
	if a.MostProductiveDay != nil {
		recs = append(recs, "Your most productive day is "+a.MostProductiveDay.Day)
	}
	return recs
}

// ExportAnalytics serializes OverallAnalytics as indented JSON or as a
// two-column metric table.
func (e *Engine) ExportAnalytics(format string) ([]byte, error) {
	a := e.OverallAnalytics()
	switch format {
	case FormatJSON:
		return json.MarshalIndent(a, "", "  ")
	case FormatCSV:
		return analyticsCSV(a)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func analyticsCSV(a Analytics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"Metric", "Value"},
		{"Total Goals", strconv.Itoa(a.TotalGoals)},
		{"Active Goals", strconv.Itoa(a.ActiveGoals)},
		{"Completion Rate", strconv.Itoa(a.CompletionRate) + "%"},
		{"Longest Streak", strconv.Itoa(a.LongestStreak)},
		{"Consistency Score", strconv.Itoa(a.ConsistencyScore) + "%"},
		{"Total Completed Days", strconv.Itoa(a.TotalCompletedDays)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func ReportFilename(now time.Time) string {
	return "goaltracker_report_" + now.Format(engine.DateLayout) + ".json"
}

func BackupFilename(now time.Time) string {
	return "goaltracker_backup_" + now.Format(engine.DateLayout) + ".json"
}
