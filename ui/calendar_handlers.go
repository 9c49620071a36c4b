package ui

import (
	"net/http"
	"strconv"
	"time"

	"roster/domain/core"
	"roster/domain/schedule"
	"roster/internal/agenda"
	"roster/internal/calendar"
	"roster/internal/errors"

	"github.com/gin-gonic/gin"
)

type quickAddRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// handleCalendarIndex returns the event index keyed by canonical day
func (s *Server) handleCalendarIndex(c *gin.Context) {
	if s.notModified(c) {
		return
	}
	c.JSON(http.StatusOK, s.store.Index())
}

// handleCalendarMonth accepts ?month=YYYY-MM or ?year=&month=. Without
// parameters it shows the current month.
func (s *Server) handleCalendarMonth(c *gin.Context) {
	year, month, err := s.monthQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	view, err := s.store.Month(year, month)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) monthQuery(c *gin.Context) (int, time.Month, error) {
	today := s.store.Today()
	yearParam, monthParam := c.Query("year"), c.Query("month")

	if yearParam == "" {
		if monthParam == "" {
			return today.Year(), today.Month(), nil
		}
		return calendar.ParseMonth(monthParam)
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, errors.InvalidInput("year must be a number between 1 and 9999")
	}
	if monthParam == "" {
		return year, today.Month(), nil
	}
	m, err := strconv.Atoi(monthParam)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, errors.InvalidInput("month must be a number between 1 and 12")
	}
	return year, time.Month(m), nil
}

func (s *Server) handleCalendarToday(c *gin.Context) {
	events := s.store.TodayOccurrences()
	if events == nil {
		events = []schedule.Occurrence{}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":   s.store.Today().String(),
		"events": events,
	})
}

// handleAgendaSheet renders one day as a printable sheet, HTML by default
// or Markdown with ?format=md
func (s *Server) handleAgendaSheet(c *gin.Context) {
	day, err := core.ParseDay(c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	occurrences := s.store.Index().On(day)

	switch c.DefaultQuery("format", "html") {
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", agenda.HTML(day, occurrences))
	case "md", "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(agenda.Markdown(day, occurrences)))
	default:
		s.writeError(c, errors.InvalidInput("format must be html or md"))
	}
}

func (s *Server) handleQuickAdd(c *gin.Context) {
	day, err := core.ParseDay(c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req quickAddRequest
	if !s.bindJSON(c, &req) {
		return
	}
	rec, err := s.store.QuickAdd(c.Request.Context(), day, schedule.CustomerInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleCalendarICS(c *gin.Context) {
	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="work-schedule.ics"`)
	c.Status(http.StatusOK)
	if err := calendar.WriteICS(c.Writer, s.store.All(), s.now()); err != nil {
		s.logger.Error("ICS export failed: %v", err)
	}
}

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Summary())
}
