package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"regexp"
	"strings"

	"goeda/adapters/render"
	"goeda/domain/dataset"
	"goeda/domain/views"
	"goeda/internal/analysis"
	"goeda/internal/errors"

	"github.com/gin-gonic/gin"
)

// dashboardSections are always shown above the visualization selector
var dashboardSections = []views.View{
	views.ViewBasicInfo,
	views.ViewSummaryStatistics,
	views.ViewCorrelationMatrix,
	views.ViewOutlierDetection,
}

// ViewModel is what the view fragment template renders
type ViewModel struct {
	ID       string
	Result   *views.Result
	Charts   []template.HTML
	Selected map[string]bool
}

// DashboardModel is what the dashboard page renders
type DashboardModel struct {
	ID       string
	Name     string
	Rows     int
	Columns  int
	Sections []ViewModel
	Viz      views.View
	VizView  ViewModel
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	datasets, err := s.store.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Datasets":  datasets,
		"MaxUpload": s.maxUpload / (1024 * 1024),
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	s.limitUpload(c)

	header, err := c.FormFile("dataset")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			s.respondError(c, errors.TooLarge(fmt.Sprintf("upload exceeds %d MB", s.maxUpload/(1024*1024))))
			return
		}
		s.respondError(c, errors.InvalidInput("a CSV file is required in the \"dataset\" field"))
		return
	}

	f, err := header.Open()
	if err != nil {
		log.Printf("[handleUpload] Failed to open %s: %v", header.Filename, err)
		s.respondError(c, errors.InternalError("could not read the uploaded file"))
		return
	}
	defer f.Close()

	table, err := s.loader.Load(header.Filename, f)
	if err != nil {
		log.Printf("[handleUpload] Failed to load %s: %v", header.Filename, err)
		s.respondError(c, err)
		return
	}

	id, err := s.store.Put(c.Request.Context(), table)
	if err != nil {
		s.respondError(c, err)
		return
	}
	log.Printf("[handleUpload] Loaded %s as %s (%d rows, %d columns)", header.Filename, id, table.Rows(), table.NumColumns())

	target := "/datasets/" + id
	if isHTMX(c) {
		c.Header("HX-Redirect", target)
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) handleDashboard(c *gin.Context) {
	id := c.Param("id")
	table, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	viz, err := views.Parse(c.DefaultQuery("viz", string(views.ViewPairplot)))
	if err != nil || !isVisualization(viz) {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("unknown visualization %q", c.Query("viz"))))
		return
	}

	model := DashboardModel{
		ID:      id,
		Name:    table.Name(),
		Rows:    table.Rows(),
		Columns: table.NumColumns(),
		Viz:     viz,
	}
	for _, v := range dashboardSections {
		vm, err := s.buildView(id, table, v, views.Selection{})
		if err != nil {
			s.respondError(c, err)
			return
		}
		model.Sections = append(model.Sections, vm)
	}

	model.VizView, err = s.buildView(id, table, viz, selectionFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.renderTemplate(c, http.StatusOK, "dashboard.html", model)
}

// handleView renders one view: an HTML fragment for htmx, JSON otherwise
func (s *Server) handleView(c *gin.Context) {
	id := c.Param("id")
	view, err := views.Parse(c.Param("view"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	table, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sel := selectionFromQuery(c)

	if !isHTMX(c) {
		res, err := analysis.Dispatch(table, view, sel)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	vm, err := s.buildView(id, table, view, sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "fragments/view.html", vm)
}

func (s *Server) handleReport(c *gin.Context) {
	id := c.Param("id")
	table, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	base := reportFilename(table.Name())
	if c.Query("format") == "md" {
		md, err := s.reports.Markdown(c.Request.Context(), table)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".md"))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", md)
		return
	}

	page, err := s.reports.HTML(c.Request.Context(), table)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".html"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// buildView runs the analysis and draws its charts as inline SVG
func (s *Server) buildView(id string, table *dataset.Table, view views.View, sel views.Selection) (ViewModel, error) {
	res, err := analysis.Dispatch(table, view, sel)
	if err != nil {
		return ViewModel{}, err
	}

	vm := ViewModel{ID: id, Result: res, Selected: make(map[string]bool)}
	for _, col := range res.Selection.Columns {
		vm.Selected[col] = true
	}
	for i, spec := range res.Charts {
		var buf bytes.Buffer
		if err := s.renderer.Render(spec, &buf); err != nil {
			return ViewModel{}, errors.Wrapf(err, "%s chart %d", view, i)
		}
		vm.Charts = append(vm.Charts, template.HTML(render.Inline(buf.Bytes())))
	}
	return vm, nil
}

func selectionFromQuery(c *gin.Context) views.Selection {
	return views.ParseSelection(c.Request.URL.Query())
}

func isVisualization(v views.View) bool {
	for _, viz := range views.Visualizations() {
		if v == viz {
			return true
		}
	}
	return false
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func reportFilename(name string) string {
	name = strings.TrimSuffix(name, ".csv")
	name = strings.TrimSuffix(name, ".xlsx")
	name = strings.Trim(unsafeFilename.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = "dataset"
	}
	return name + "-report"
}
