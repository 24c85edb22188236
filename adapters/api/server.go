package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"goeda/adapters/tabular"
	"goeda/domain/views"
	"goeda/internal"
	"goeda/internal/analysis"
	"goeda/internal/errors"
	"goeda/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var logger = internal.DefaultLogger.For("API")

// Server exposes datasets and views as a JSON API
type Server struct {
	router    *chi.Mux
	store     ports.DatasetStore
	loader    *tabular.Loader
	renderer  ports.ChartRenderer
	maxUpload int64
}

// Config wires the API to its collaborators
type Config struct {
	Store     ports.DatasetStore
	Loader    *tabular.Loader
	Renderer  ports.ChartRenderer
	MaxUpload int64
}

// NewServer creates the API server with middleware and routes registered
func NewServer(config Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		store:     config.Store,
		loader:    config.Loader,
		renderer:  config.Renderer,
		maxUpload: config.MaxUpload,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/datasets", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleUpload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/views/{view}", s.handleView)
			r.Get("/views/{view}/charts/{index}.svg", s.handleChart)
		})
	})
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the API on addr
func (s *Server) Start(addr string) error {
	logger.Info("Starting goeda API on http://%s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if datasets == nil {
		datasets = []ports.DatasetInfo{}
	}
	writeJSON(w, http.StatusOK, datasets)
}

// handleUpload accepts a multipart "dataset" file, or the raw file as the body
// with its name in the name query parameter
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	filename, body, err := uploadedFile(r)
	if err != nil {
		writeError(w, s.uploadError(err))
		return
	}
	defer body.Close()

	table, err := s.loader.Load(filename, body)
	if err != nil {
		writeError(w, s.uploadError(err))
		return
	}

	id, err := s.store.Put(r.Context(), table)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("stored %s as %s", filename, id)

	w.Header().Set("Location", "/api/datasets/"+id)
	writeJSON(w, http.StatusCreated, newDatasetResponse(id, table))
}

func uploadedFile(r *http.Request) (string, io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, header, err := r.FormFile("dataset")
		if err != nil {
			if strings.Contains(err.Error(), "request body too large") {
				return "", nil, err
			}
			return "", nil, errors.InvalidInput("a CSV file is required in the \"dataset\" field")
		}
		return header.Filename, f, nil
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	return name, r.Body, nil
}

func (s *Server) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return errors.TooLarge(fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
	}
	return err
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	table, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDatasetResponse(id, table))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	res, err := s.dispatch(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleChart renders the index-th chart of a view as SVG
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	res, err := s.dispatch(r)
	if err != nil {
		writeError(w, err)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(res.Charts) {
		writeError(w, errors.NotFound(fmt.Sprintf("chart %s of %s", chi.URLParam(r, "index"), res.View)))
		return
	}

	w.Header().Set("Content-Type", s.renderer.ContentType())
	if err := s.renderer.Render(res.Charts[index], w); err != nil {
		logger.Error("render %s chart %d: %v", res.View, index, err)
		writeError(w, err)
	}
}

func (s *Server) dispatch(r *http.Request) (*views.Result, error) {
	view, err := views.Parse(chi.URLParam(r, "view"))
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	table, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return analysis.Dispatch(table, view, views.ParseSelection(r.URL.Query()))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if !errors.IsAppError(err) {
		logger.Error("unexpected error: %v", err)
		err = errors.InternalError("internal server error")
	}
	message := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}
	writeJSON(w, errors.HTTPStatus(err), ErrorResponse{Error: message, Code: errors.GetCode(err)})
}
