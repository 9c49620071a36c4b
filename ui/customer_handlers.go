package ui

import (
	"net/http"

	"roster/domain/core"
	"roster/domain/schedule"

	"github.com/gin-gonic/gin"
)

type addDateRequest struct {
	Date string `json:"date"`
}

type recurringRequest struct {
	Rule    string `json:"rule"`
	Start   string `json:"start"`
	Through string `json:"through"`
}

func (s *Server) handleListCustomers(c *gin.Context) {
	if s.notModified(c) {
		return
	}
	records := s.store.All()
	c.JSON(http.StatusOK, gin.H{
		"customers": records,
		"count":     len(records),
	})
}

func (s *Server) handleGetCustomer(c *gin.Context) {
	rec, err := s.store.Get(core.ID(c.Param("id")))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleCreateCustomer(c *gin.Context) {
	var in schedule.CustomerInput
	if !s.bindJSON(c, &in) {
		return
	}
	rec, err := s.store.Create(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleUpdateCustomer(c *gin.Context) {
	var in schedule.CustomerInput
	if !s.bindJSON(c, &in) {
		return
	}
	rec, err := s.store.Update(c.Request.Context(), core.ID(c.Param("id")), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteCustomer(c *gin.Context) {
	if err := s.store.Remove(c.Request.Context(), core.ID(c.Param("id"))); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddDate(c *gin.Context) {
	var req addDateRequest
	if !s.bindJSON(c, &req) {
		return
	}
	day, err := core.ParseDay(req.Date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	rec, err := s.store.AddDates(c.Request.Context(), core.ID(c.Param("id")), day.String())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleRemoveDate backs the calendar delete action. Removing the last date
// removes the customer.
func (s *Server) handleRemoveDate(c *gin.Context) {
	day, err := core.ParseDay(c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	pruned, err := s.store.RemoveDate(c.Request.Context(), core.ID(c.Param("id")), day.String())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"removed": day.String(),
		"pruned":  pruned,
	})
}

func (s *Server) handleAddRecurring(c *gin.Context) {
	var req recurringRequest
	if !s.bindJSON(c, &req) {
		return
	}
	start, err := core.ParseDay(req.Start)
	if err != nil {
		s.writeError(c, err)
		return
	}
	through, err := core.ParseDay(req.Through)
	if err != nil {
		s.writeError(c, err)
		return
	}

	rec, added, err := s.store.AddRecurring(c.Request.Context(), core.ID(c.Param("id")), req.Rule, start, through)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer": rec,
		"added":    added,
	})
}
