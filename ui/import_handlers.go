package ui

import (
	stderrors "errors"
	"net/http"
	"path/filepath"
	"strings"

	"roster/internal/errors"

	"github.com/gin-gonic/gin"
)

// UploadField is the multipart field carrying the workbook
const UploadField = "workbook"

var acceptedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

type confirmRequest struct {
	Sheet string `json:"sheet"`
}

// handleUpload parks an uploaded workbook and returns its token and sheets
func (s *Server) handleUpload(c *gin.Context) {
	if s.maxUploadBytes > 0 {
		if c.Request.ContentLength > s.maxUploadBytes {
			s.writeError(c, errors.TooLarge(s.maxUploadBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	}

	header, err := c.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(c, errors.TooLarge(s.maxUploadBytes))
			return
		}
		s.writeError(c, errors.InvalidInput("multipart field \""+UploadField+"\" is required"))
		return
	}

	filename := filepath.Base(header.Filename)
	if !acceptedExtensions[strings.ToLower(filepath.Ext(filename))] {
		s.writeError(c, errors.InvalidInput("only .xlsx, .xlsm and .csv files are accepted"))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.writeError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	item, err := s.importer.Upload(c.Request.Context(), file, filename)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleGetPending(c *gin.Context) {
	item, err := s.importer.Pending().Get(c.Param("token"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// handleConfirmImport imports the chosen sheet, replacing every record
func (s *Server) handleConfirmImport(c *gin.Context) {
	var req confirmRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Sheet) == "" {
		s.writeError(c, errors.InvalidInput("sheet is required"))
		return
	}

	result, err := s.importer.Confirm(c.Request.Context(), c.Param("token"), req.Sheet)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCancelImport(c *gin.Context) {
	if err := s.importer.Cancel(c.Param("token")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
