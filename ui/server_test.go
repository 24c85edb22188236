package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"goeda/adapters/excel"
	"goeda/adapters/render"
	"goeda/adapters/tabular"
	"goeda/internal/report"
	"goeda/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = "a,b,c\n1,4,x\n2,5,y\n3,6,z\n"

type testEnv struct {
	server *Server
	store  *session.MemoryStore
	loader *tabular.Loader
}

func newTestEnv(t *testing.T, maxUpload int64) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(time.Hour, 8)
	loader := tabular.NewLoader(excel.DefaultReaderConfig())
	renderer := render.NewRenderer(12, 8)

	// templates and static assets are read from the source tree
	s := NewServer(os.DirFS(".."), Options{
		Store:     store,
		Loader:    loader,
		Renderer:  renderer,
		Reports:   report.NewBuilder(renderer, 2),
		MaxUpload: maxUpload,
	})
	require.NoError(t, s.Initialize())
	return &testEnv{server: s, store: store, loader: loader}
}

func (e *testEnv) putScenario(t *testing.T) string {
	t.Helper()
	table, err := e.loader.Load("scenario.csv", strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	id, err := e.store.Put(context.Background(), table)
	require.NoError(t, err)
	return id
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	w := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestIndexListsDatasets(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Upload a dataset")
	assert.Contains(t, body, "/datasets/"+id)
}

func TestUploadRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	w := env.do(uploadRequest(t, "dataset", "scenario.csv", scenarioCSV))
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/datasets/"))
	assert.Equal(t, 1, env.store.Len())

	w = env.do(httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, header := range []string{"Basic Information", "Summary Statistics", "Correlation Matrix", "Outlier Detection", "Pairplot"} {
		assert.Contains(t, body, header)
	}
	assert.Contains(t, body, "3 rows × 3 columns")
	assert.Contains(t, body, "<svg")
}

func TestUploadWithHTMXUsesRedirectHeader(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	req := uploadRequest(t, "dataset", "scenario.csv", scenarioCSV)
	req.Header.Set("HX-Request", "true")

	w := env.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("HX-Redirect"), "/datasets/"))
}

func TestUploadErrors(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		env := newTestEnv(t, 1<<20)
		w := env.do(uploadRequest(t, "file", "scenario.csv", scenarioCSV))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("unsupported file", func(t *testing.T) {
		env := newTestEnv(t, 1<<20)
		w := env.do(uploadRequest(t, "dataset", "notes.pdf", "hello"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, env.store.Len())
	})

	t.Run("too large", func(t *testing.T) {
		env := newTestEnv(t, 64)
		w := env.do(uploadRequest(t, "dataset", "big.csv", "a,b\n"+strings.Repeat("1,2\n", 200)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, 0, env.store.Len())
	})
}

func TestViewJSON(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/views/summary_statistics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "summary_statistics", payload["view"])
	assert.Equal(t, "Summary Statistics", payload["title"])
}

func TestViewFragment(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	req := httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/views/scatter_plot?x=b&y=a", nil)
	req.Header.Set("HX-Request", "true")
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="view-scatter_plot"`)
	assert.Contains(t, body, "Scatter Plot: b vs a")
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "<html")
}

func TestPairplotEmptySelectionWarns(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	req := httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/views/pairplot?columns_set=1", nil)
	req.Header.Set("HX-Request", "true")
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please select at least one numerical column for the pairplot.")
	assert.NotContains(t, w.Body.String(), "<svg")
}

func TestDashboardVisualizationSelector(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"?viz=histogram&column=b", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Histogram: b")

	w = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"?viz=basic_info", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestViewErrors(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/views/violin", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/datasets/missing/views/basic_info", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	req := httptest.NewRequest(http.MethodGet, "/datasets/missing", nil)
	req.Header.Set("Accept", "text/html")
	w = env.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestReportDownload(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	id := env.putScenario(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/report", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "scenario-report.html")
	assert.Contains(t, w.Body.String(), "<svg")

	w = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/report?format=md", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "# EDA report: scenario"))
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	w := env.do(httptest.NewRequest(http.MethodGet, "/static/css/eda.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelectionFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query   string
		columns []string
		set     bool
	}{
		{"", nil, false},
		{"columns=a,b&columns=c", []string{"a", "b", "c"}, true},
		{"columns_set=1", nil, true},
		{"columns=", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query+"&x=a&y=b&column=c", nil)

			sel := selectionFromQuery(c)
			assert.Equal(t, tt.columns, sel.Columns)
			assert.Equal(t, tt.set, sel.ColumnsSet)
			assert.Equal(t, "a", sel.X)
			assert.Equal(t, "b", sel.Y)
			assert.Equal(t, "c", sel.Column)
		})
	}
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "sales_data-report", reportFilename("sales data.csv"))
	assert.Equal(t, "dataset-report", reportFilename("???"))
}

func TestRespondErrorMasksUnexpectedErrors(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/datasets/x", nil)

	env.server.respondError(c, fmt.Errorf("open /tmp/upload-123: permission denied"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "/tmp/upload-123")
}
