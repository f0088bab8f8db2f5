package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"partsdash/adapters/excel"
	"partsdash/app"
	"partsdash/domain/core"
	"partsdash/internal/loader"
	"partsdash/internal/session"
	"partsdash/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T, maxUpload int64) http.Handler {
	t.Helper()
	registry := session.NewRegistry(func() *loader.Loader {
		return loader.New(excel.NewDataReader(excel.DefaultReaderConfig()), loader.Config{})
	}, time.Hour)
	server := NewServer(registry, app.NewDashboardService(app.DashboardConfig{}), ServerOptions{MaxUploadBytes: maxUpload})

	a, err := NewApp(Config{Port: "0"}, server, registry)
	require.NoError(t, err)
	return a.Handler()
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(h, http.MethodPost, "/api/sessions")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID      string   `json:"id"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"products", "references", "applications"}, body.Missing)
	return body.ID
}

func upload(t *testing.T, h http.Handler, id, role, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id+"/files/"+role, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func uploadDefaults(t *testing.T, h http.Handler, id string) {
	t.Helper()
	for role, sheet := range map[string]testkit.Sheet{
		"products":     testkit.ProductSheet(),
		"references":   testkit.ReferenceSheet(),
		"applications": testkit.ApplicationSheet(),
	} {
		rec := upload(t, h, id, role, role+".xlsx", testkit.XLSX(t, sheet))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

type tableBody struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

func TestHealthAndIndex(t *testing.T) {
	h := newTestApp(t, 0)

	rec := do(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exploded_view")
}

func TestCORSHeaders(t *testing.T) {
	h := newTestApp(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://frontend.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSessionLookup(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/sessions/"+id).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/sessions/not-a-uuid/files").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/sessions/"+core.NewSessionID().String()+"/files").Code)

	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/api/sessions/"+id).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/sessions/"+id).Code)
}

func TestMergedViewEndToEnd(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)
	uploadDefaults(t, h, id)

	rec := do(h, http.MethodGet, "/api/sessions/"+id+"/merged")
	require.Equal(t, http.StatusOK, rec.Code)
	var idle struct {
		Ready bool `json:"ready"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &idle))
	assert.False(t, idle.Ready)

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/merged?category=Gaskets&columns=product_code,brand_1,brand_2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view struct {
		Ready     bool      `json:"ready"`
		MaxRepeat int       `json:"max_repeat"`
		Table     tableBody `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.Ready)
	assert.Equal(t, 3, view.MaxRepeat)
	assert.Equal(t, []string{"product_code", "brand_1", "brand_2"}, view.Table.Columns)
	require.Len(t, view.Table.Rows, 2)
	assert.Equal(t, "00123", view.Table.Rows[0]["product_code"])
	assert.Equal(t, "Zeta", view.Table.Rows[0]["brand_1"])
	assert.Equal(t, "Alpha", view.Table.Rows[0]["brand_2"])
}

func TestMergedViewAgainstApplications(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)
	uploadDefaults(t, h, id)

	rec := do(h, http.MethodGet, "/api/sessions/"+id+"/merged?sku=123&against=applications")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view struct {
		Against string    `json:"against"`
		Table   tableBody `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "applications", view.Against)
	require.Len(t, view.Table.Rows, 1)
	assert.Equal(t, "Fiat", view.Table.Rows[0]["brand_1"])

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/merged?sku=123&against=unknown")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergedViewMissingMandatoryFile(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)
	rec := upload(t, h, id, "products", "products.csv", testkit.CSV(t, testkit.ProductSheet()))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/merged?sku=123")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "references, applications")
}

func TestOptionsEndpoint(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)
	uploadDefaults(t, h, id)

	rec := do(h, http.MethodGet, "/api/sessions/"+id+"/options?category=Gaskets")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts app.SelectorOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"", "123", "456"}, opts.SKUs)
	assert.Equal(t, []string{"", "Belts", "Filters", "Gaskets"}, opts.Categories)
}

func TestUploadErrors(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)

	rec := upload(t, h, id, "products", "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	bad := testkit.Sheet{Headers: []string{"sku", "price"}, Rows: [][]string{{"1", "2"}}}
	rec = upload(t, h, id, "products", "products.csv", testkit.CSV(t, bad))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "MALFORMED_TABLE")

	rec = upload(t, h, id, "invoices", "invoices.csv", testkit.CSV(t, bad))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/files")
	assert.Contains(t, rec.Body.String(), `"files":[]`, "rejected uploads are not stored")
}

func TestUploadTooLarge(t *testing.T) {
	h := newTestApp(t, 64)
	id := createSession(t, h)

	rec := upload(t, h, id, "products", "products.csv", testkit.CSV(t, testkit.ERPSheet(20)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBrowseAndPanels(t *testing.T) {
	h := newTestApp(t, 0)
	id := createSession(t, h)
	uploadDefaults(t, h, id)
	rec := upload(t, h, id, "exploded_view", "exploded.csv", testkit.CSV(t, testkit.ExplodedSheet()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view struct {
		Total int       `json:"total"`
		Table tableBody `json:"table"`
	}

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/browse/references?company_name=Zeta&company_name=Mann")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 7, view.Total)
	assert.Len(t, view.Table.Rows, 2)

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/panels/exploded_view?category_name=Hardware")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 4, view.Total)
	assert.Len(t, view.Table.Rows, 2)

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/panels/erp_export")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/api/sessions/"+id+"/panels/products")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
