package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"goaltracker/internal/analytics"
	"goaltracker/internal/engine"
)

// maxImportBytes bounds an import body; the stored document is far smaller.
const maxImportBytes = 32 << 20

func (s *Server) overallAnalytics(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.analytics.OverallAnalytics(), nil)
}

func (s *Server) consistencyTrend(c *gin.Context) {
	days, ok := s.daysQuery(c)
	if !ok {
		return
	}
	HandleSuccess(c, http.StatusOK, s.analytics.ConsistencyTrend(days), nil)
}

func (s *Server) completionRates(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.analytics.GoalCompletionRates(), nil)
}

func (s *Server) report(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.analytics.GenerateReport(), map[string]any{
		"filename": analytics.ReportFilename(s.goals.Now()),
	})
}

func (s *Server) exportAnalytics(c *gin.Context) {
	format := c.DefaultQuery("format", analytics.FormatJSON)
	out, err := s.analytics.ExportAnalytics(format)
	if err != nil {
		s.fail(c, err, "Failed to export analytics")
		return
	}
	contentType := "application/json"
	if format == analytics.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, out)
}

func (s *Server) getSettings(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.goals.Settings(), nil)
}

type SettingsRequest struct {
	Theme            *string `json:"theme"`
	WeekStartsOn     *string `json:"weekStartsOn"`
	Notifications    *bool   `json:"notifications"`
	NotificationTime *string `json:"notificationTime"`
	AutoSave         *bool   `json:"autoSave"`
	BackupFrequency  *string `json:"backupFrequency"`
	DefaultView      *string `json:"defaultView"`
	Timezone         *string `json:"timezone"`
}

func (s *Server) updateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, s.logger, err, http.StatusBadRequest, "Invalid JSON")
		return
	}
	st, err := s.goals.UpdateSettings(c.Request.Context(), engine.SettingsPatch(req))
	if err != nil {
		s.fail(c, err, "Failed to update settings")
		return
	}
	HandleSuccess(c, http.StatusOK, st, nil)
}

func (s *Server) resetSettings(c *gin.Context) {
	st, err := s.goals.ResetSettings(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to reset settings")
		return
	}
	HandleSuccess(c, http.StatusOK, st, nil)
}

func (s *Server) getProfile(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, s.goals.Profile(), map[string]any{"daysActive": s.goals.DaysActive()})
}

type ProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, s.logger, err, http.StatusBadRequest, "Invalid JSON")
		return
	}
	u, err := s.goals.UpdateProfile(c.Request.Context(), engine.ProfileInput(req))
	if err != nil {
		s.fail(c, err, "Failed to update profile")
		return
	}
	HandleSuccess(c, http.StatusOK, u, nil)
}

func (s *Server) exportData(c *gin.Context) {
	out, err := s.goals.ExportSnapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to export data")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+analytics.BackupFilename(s.goals.Now())+`"`)
	c.Data(http.StatusOK, "application/json", out)
}

func (s *Server) importData(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		HandleError(c, s.logger, err, http.StatusBadRequest, "Failed to read body")
		return
	}
	if err := s.goals.ImportSnapshot(c.Request.Context(), payload); err != nil {
		s.fail(c, err, "Failed to import data")
		return
	}
	HandleSuccess(c, http.StatusOK, s.goals.GetStats(), nil)
}

func (s *Server) listBackups(c *gin.Context) {
	dates, err := s.goals.ListBackups(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to list backups")
		return
	}
	HandleSuccess(c, http.StatusOK, dates, nil)
}

func (s *Server) createBackup(c *gin.Context) {
	if err := s.goals.CreateBackup(c.Request.Context()); err != nil {
		s.fail(c, err, "Failed to create backup")
		return
	}
	HandleSuccess(c, http.StatusCreated, gin.H{"date": engine.FormatDate(s.goals.Now())}, nil)
}

func (s *Server) restoreBackup(c *gin.Context) {
	if err := s.goals.RestoreBackup(c.Request.Context(), c.Param("date")); err != nil {
		s.fail(c, err, "Failed to restore backup")
		return
	}
	HandleSuccess(c, http.StatusOK, s.goals.GetStats(), nil)
}

func (s *Server) storageUsage(c *gin.Context) {
	st, err := s.goals.AppStats(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to read storage usage")
		return
	}
	HandleSuccess(c, http.StatusOK, st, nil)
}

func (s *Server) reset(c *gin.Context) {
	if err := s.goals.Reset(c.Request.Context()); err != nil {
		s.fail(c, err, "Failed to reset data")
		return
	}
	c.Status(http.StatusNoContent)
}
