package ui

import (
	"fmt"
	"net/http"

	"roster/internal/calendar"

	"github.com/gin-gonic/gin"
)

// handleExport downloads every record as work-schedule-<today>.json
func (s *Server) handleExport(c *gin.Context) {
	if s.notModified(c) {
		return
	}
	filename := calendar.ExportFilename(s.store.Today())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
	if err := calendar.WriteExport(c.Writer, s.store.All()); err != nil {
		s.logger.Error("Export failed: %v", err)
	}
}
