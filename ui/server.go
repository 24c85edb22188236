package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"goeda/adapters/tabular"
	"goeda/domain/views"
	"goeda/internal/report"
	"goeda/ports"

	"github.com/gin-gonic/gin"
)

// Server is the HTML dashboard
type Server struct {
	router    *gin.Engine
	templates *template.Template
	files     fs.FS

	store     ports.DatasetStore
	loader    *tabular.Loader
	renderer  ports.ChartRenderer
	reports   *report.Builder
	maxUpload int64
}

// Options wires the dashboard to its collaborators
type Options struct {
	Store     ports.DatasetStore
	Loader    *tabular.Loader
	Renderer  ports.ChartRenderer
	Reports   *report.Builder
	MaxUpload int64
}

// NewServer creates the dashboard. files must contain ui/templates and ui/static.
func NewServer(files fs.FS, opts Options) *Server {
	return &Server{
		router:    gin.New(),
		files:     files,
		store:     opts.Store,
		loader:    opts.Loader,
		renderer:  opts.Renderer,
		reports:   opts.Reports,
		maxUpload: opts.MaxUpload,
	}
}

// Initialize parses templates and registers middleware and routes
func (s *Server) Initialize() error {
	funcMap := template.FuncMap{
		"fmtFloat": report.FormatFloat,
		"corr": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"join": strings.Join,
		"has": func(list []string, v string) bool {
			for _, item := range list {
				if item == v {
					return true
				}
			}
			return false
		},
		"visualizations": views.Visualizations,
	}

	templatesFS, err := fs.Sub(s.files, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	files1, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob root templates: %w", err)
	}
	files2, err := fs.Glob(templatesFS, "*/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob nested templates: %w", err)
	}
	files := append(files1, files2...)
	log.Printf("[TemplateInit] Found %d template files: %v", len(files), files)

	s.templates = template.New("").Funcs(funcMap)
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		// templates are addressed by their path relative to ui/templates
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/upload", s.handleUpload)

	datasets := s.router.Group("/datasets/:id")
	datasets.GET("", s.handleDashboard)
	datasets.GET("/views/:view", s.handleView)
	datasets.GET("/report", s.handleReport)
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting goeda dashboard on http://%s", addr)
	return s.router.Run(addr)
}
