package ui

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"goeda/internal/errors"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template into a buffer first so a failing template
// never leaves a half-written response
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("Template error for %s: %v", templateName, err)
		log.Printf("Template data type: %T", data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}

// respondError answers with the error page for browsers and htmx, JSON otherwise
func (s *Server) respondError(c *gin.Context, err error) {
	if !errors.IsAppError(err) {
		log.Printf("[respondError] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		err = errors.InternalError("internal server error")
	}
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	message := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}

	if isHTMX(c) || strings.Contains(c.GetHeader("Accept"), "text/html") {
		s.renderTemplate(c, status, "error.html", gin.H{
			"Status":  status,
			"Code":    code,
			"Message": message,
			"Partial": isHTMX(c),
		})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
