package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goeda/adapters/excel"
	"goeda/adapters/render"
	"goeda/adapters/tabular"
	"goeda/domain/views"
	"goeda/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = "a,b,c\n1,4,x\n2,5,y\n3,6,z\n"

func newTestServer(maxUpload int64) (*Server, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour, 8)
	s := NewServer(Config{
		Store:     store,
		Loader:    tabular.NewLoader(excel.DefaultReaderConfig()),
		Renderer:  render.NewRenderer(12, 8),
		MaxUpload: maxUpload,
	})
	return s, store
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, s *Server) DatasetResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/datasets?name=scenario.csv", strings.NewReader(scenarioCSV))
	req.Header.Set("Content-Type", "text/csv")
	w := serve(s, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUploadRawBody(t *testing.T) {
	s, store := newTestServer(1 << 20)
	resp := upload(t, s)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "scenario.csv", resp.Name)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, []string{"a", "b"}, resp.Numeric)
	assert.Equal(t, []string{"c"}, resp.Categorical)
	assert.Len(t, resp.Views, len(views.All()))
	require.Len(t, resp.Columns, 3)
	assert.Equal(t, "int64", resp.Columns[0].DType)
	assert.Equal(t, "object", resp.Columns[2].DType)
	assert.Equal(t, 1, store.Len())
}

func TestUploadMultipart(t *testing.T) {
	s, _ := newTestServer(1 << 20)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("dataset", "scenario.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(scenarioCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := serve(s, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/api/datasets/"))
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name      string
		maxUpload int64
		url       string
		body      string
		status    int
		code      string
	}{
		{"unsupported type", 1 << 20, "/api/datasets?name=notes.pdf", "hello", http.StatusBadRequest, "INVALID_INPUT"},
		{"empty file", 1 << 20, "/api/datasets?name=empty.csv", "", http.StatusBadRequest, "PARSE_ERROR"},
		{"too large", 16, "/api/datasets?name=big.csv", "a,b\n" + strings.Repeat("1,2\n", 50), http.StatusRequestEntityTooLarge, "TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestServer(tt.maxUpload)
			w := serve(s, httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestGetListDelete(t *testing.T) {
	s, _ := newTestServer(1 << 20)
	id := upload(t, s).ID

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = serve(s, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewEndpoint(t *testing.T) {
	s, _ := newTestServer(1 << 20)
	id := upload(t, s).ID

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/correlation_matrix", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		View        string `json:"view"`
		Correlation struct {
			Columns []string    `json:"columns"`
			Values  [][]float64 `json:"values"`
		} `json:"correlation"`
		Charts []json.RawMessage `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "correlation_matrix", res.View)
	assert.Equal(t, []string{"a", "b"}, res.Correlation.Columns)
	assert.InDelta(t, 1.0, res.Correlation.Values[0][1], 1e-9)
	assert.Len(t, res.Charts, 1)
}

func TestViewSelectionFromQuery(t *testing.T) {
	s, _ := newTestServer(1 << 20)
	id := upload(t, s).ID

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/pairplot?columns=", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please select at least one numerical column for the pairplot.")

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/outlier_detection?columns=a,b", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Charts []json.RawMessage `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Charts, 2)
}

func TestChartEndpoint(t *testing.T) {
	s, _ := newTestServer(1 << 20)
	id := upload(t, s).ID

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/histogram/charts/0.svg?column=b", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Histogram: b")

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/basic_info/charts/0.svg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/histogram/charts/x.svg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownView(t *testing.T) {
	s, _ := newTestServer(1 << 20)
	id := upload(t, s).ID

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/views/violin", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteErrorMasksUnexpectedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, fmt.Errorf("dial tcp 10.0.0.7:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Code)
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, w.Body.String(), "10.0.0.7")
}
