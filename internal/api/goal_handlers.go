package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goaltracker/internal/engine"
	"goaltracker/internal/storage"
)

type CreateGoalRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	// Target may be a number or numeric text; anything else means the default.
	Target any `json:"target"`
}

type UpdateGoalRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Target      *int    `json:"target"`
	Status      *string `json:"status"`
}

type ToggleRequest struct {
	Date string `json:"date"`
}

func targetFrom(v any) *int {
	switch t := v.(type) {
	case float64:
		n := int(math.Trunc(t))
		return &n
	case string:
		return engine.ParseTarget(t)
	default:
		return nil
	}
}

func (s *Server) listGoals(c *gin.Context) {
	filter := engine.ParseFilter(c.Query("filter"))
	goals := s.goals.GetGoals(filter)
	HandleSuccess(c, http.StatusOK, goals, map[string]any{"count": len(goals), "filter": filter})
}

func (s *Server) createGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, s.logger, err, http.StatusBadRequest, "Invalid JSON")
		return
	}
	g, err := s.goals.CreateGoal(c.Request.Context(), engine.GoalInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Target:      targetFrom(req.Target),
	})
	if err != nil {
		s.fail(c, err, "Failed to create goal")
		return
	}
	HandleSuccess(c, http.StatusCreated, g, nil)
}

func (s *Server) getGoal(c *gin.Context) {
	g := s.goals.GetGoal(c.Param("id"))
	if g == nil {
		s.notFound(c, "goal")
		return
	}
	HandleSuccess(c, http.StatusOK, g, map[string]any{"completion": engine.CalculateCompletion(g)})
}

func (s *Server) updateGoal(c *gin.Context) {
	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, s.logger, err, http.StatusBadRequest, "Invalid JSON")
		return
	}
	g, err := s.goals.UpdateGoal(c.Request.Context(), c.Param("id"), engine.GoalPatch(req))
	if err != nil {
		s.fail(c, err, "Failed to update goal")
		return
	}
	if g == nil {
		s.notFound(c, "goal")
		return
	}
	HandleSuccess(c, http.StatusOK, g, nil)
}

func (s *Server) deleteGoal(c *gin.Context) {
	ok, err := s.goals.DeleteGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to delete goal")
		return
	}
	if !ok {
		s.notFound(c, "goal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) toggleDay(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, s.logger, err, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Date == "" {
		req.Date = engine.FormatDate(s.goals.Now())
	}
	res, err := s.goals.ToggleDayCompletion(c.Request.Context(), c.Param("id"), req.Date)
	if err != nil {
		s.fail(c, err, "Failed to toggle day")
		return
	}
	if res == nil {
		s.notFound(c, "goal")
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{
		"completed":     res.Completed,
		"goal":          res.Goal,
		"newMilestones": res.NewMilestones,
	}, nil)
}

func (s *Server) toggleStatus(c *gin.Context) {
	g, err := s.goals.ToggleGoalStatus(c.Request.Context(), c.Param("id"))
	s.goalResult(c, g, err)
}

func (s *Server) archiveGoal(c *gin.Context) {
	g, err := s.goals.ArchiveGoal(c.Request.Context(), c.Param("id"))
	s.goalResult(c, g, err)
}

func (s *Server) goalResult(c *gin.Context, g *storage.Goal, err error) {
	if err != nil {
		s.fail(c, err, "Failed to change goal status")
		return
	}
	if g == nil {
		s.notFound(c, "goal")
		return
	}
	HandleSuccess(c, http.StatusOK, g, nil)
}

func (s *Server) goalWeek(c *gin.Context) {
	g := s.goals.GetGoal(c.Param("id"))
	if g == nil {
		s.notFound(c, "goal")
		return
	}
	HandleSuccess(c, http.StatusOK, s.goals.GetWeekDays(g), nil)
}

func (s *Server) stats(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.goals.GetStats(), nil)
}

func (s *Server) history(c *gin.Context) {
	days, ok := s.daysQuery(c)
	if !ok {
		return
	}
	HandleSuccess(c, http.StatusOK, s.goals.GetCompletionHistory(days), nil)
}

// daysQuery reads ?days=, defaulting to 7. It writes the 400 itself.
func (s *Server) daysQuery(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 7, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 366 {
		HandleError(c, s.logger, errors.New("days must be between 1 and 366"), http.StatusBadRequest, "Invalid query")
		return 0, false
	}
	return n, true
}

func (s *Server) achievements(c *gin.Context) {
	window := engine.ParseWindow(c.Query("window"))
	list := s.goals.GetAchievements(window)
	HandleSuccess(c, http.StatusOK, list, map[string]any{"window": window, "count": len(list)})
}

func (s *Server) deadlines(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.goals.GetUpcomingDeadlines(), nil)
}
