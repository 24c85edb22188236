package ui

import (
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())

	staticFS, err := fs.Sub(s.files, "ui/static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	log.Printf("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}

// limitUpload caps the request body so oversized uploads fail while parsing
func (s *Server) limitUpload(c *gin.Context) {
	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
