package ui

import (
	"net/http"

	"roster/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps application error codes to HTTP statuses
func statusFor(code string) int {
	switch code {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound, errors.CodePendingNotFound:
		return http.StatusNotFound
	case errors.CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.CodeUnreadableFile, errors.CodeEmptyWorkbook, errors.CodeSheetNotFound, errors.CodeEmptyImportResult:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error", "code", "fields"}. Internal errors
// hide their cause from the client and are logged instead.
func (s *Server) writeError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := statusFor(appErr.Code)

	body := gin.H{
		"error": appErr.Error(),
		"code":  appErr.Code,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		body["error"] = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}

// notModified sets the ETag for the current record set and answers 304
// when the client already holds it
func (s *Server) notModified(c *gin.Context) bool {
	etag := `"` + s.store.Version().String() + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// bindJSON decodes the request body, answering 400 on malformed input
func (s *Server) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.writeError(c, errors.InvalidInput("malformed JSON body: "+err.Error()))
		return false
	}
	return true
}
