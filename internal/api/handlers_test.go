package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixdict/internal/dict"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	reg := dict.NewRegistry("../dict/testdata", []dict.ManifestVersion{
		{Name: "FIX.TEST", Label: "Test dictionary"},
		{Name: "FIX.BROKEN"},
	})
	return NewRouter(Deps{Registry: reg, DefaultVersion: "FIX.TEST"})
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func doPost(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestVersionsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/versions")
	require.Equal(t, http.StatusOK, w.Code)

	var infos []dict.VersionInfo
	decode(t, w, &infos)
	require.Len(t, infos, 2)
	assert.Equal(t, "FIX.TEST", infos[0].Version)
}

func TestListFields(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/fields")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9", w.Header().Get("X-Total-Count"))

	var page dict.PageResult
	decode(t, w, &page)
	assert.Equal(t, 9, page.TotalCount)
	assert.Len(t, page.Data, 9)
	assert.False(t, page.HasNext)
}

func TestListFieldsFilteredAndPaged(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/fields?tag_min=40&tag_max=60&page_size=3")
	require.Equal(t, http.StatusOK, w.Code)

	var page dict.PageResult
	decode(t, w, &page)
	assert.Equal(t, 4, page.TotalCount)
	assert.Len(t, page.Data, 3)
	assert.True(t, page.HasNext)

	w = doGet(t, r, "/api/fields?page=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, r, "/api/fields?tag_min=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMessagesBySection(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/messages?section=Trade")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
}

func TestGetFieldByTagAndName(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/fields/38")
	require.Equal(t, http.StatusOK, w.Code)
	var fd dict.FieldDetail
	decode(t, w, &fd)
	assert.Equal(t, "OrderQty", fd.Name)

	w = doGet(t, r, "/api/fields/name/orderqty")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &fd)
	assert.Equal(t, 38, fd.Tag)

	w = doGet(t, r, "/api/fields/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, r, "/api/fields/99999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMessage(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/messages/D")
	require.Equal(t, http.StatusOK, w.Code)
	var md dict.MessageDetail
	decode(t, w, &md)
	assert.Equal(t, "NewOrderSingle", md.Name)
	assert.Len(t, md.Contents, 7)

	w = doGet(t, r, "/api/messages/ZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetComponent(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/components/Parties")
	require.Equal(t, http.StatusOK, w.Code)
	var cd dict.ComponentDetail
	decode(t, w, &cd)
	assert.Equal(t, 1012, cd.ComponentID)
	assert.Equal(t, []string{"NewOrderSingle"}, cd.UsageInMessages)
}

func TestGetCodeset(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/codesets/54")
	require.Equal(t, http.StatusOK, w.Code)
	var enums []dict.Enum
	decode(t, w, &enums)
	assert.Len(t, enums, 2)

	w = doGet(t, r, "/api/codesets/11")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doGet(t, r, "/api/search?query=order")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dict.SearchResponse
	decode(t, w, &resp)
	assert.NotZero(t, resp.TotalCount)

	w = doGet(t, r, "/api/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, r, "/api/search?query=%28&is_regex=true")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVersionSelection(t *testing.T) {
	r := newTestRouter(t)

	// declared but unloadable version
	w := doGet(t, r, "/api/fields?version=FIX.BROKEN")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "version_unavailable", body["error"])

	// never declared at all
	w = doGet(t, r, "/api/fields?version=FIX.NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReferenceTables(t *testing.T) {
	r := newTestRouter(t)

	for path, want := range map[string]int{
		"/api/sections":      2,
		"/api/categories":    3,
		"/api/datatypes":     6,
		"/api/abbreviations": 3,
	} {
		w := doGet(t, r, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		var items []map[string]any
		decode(t, w, &items)
		assert.Len(t, items, want, path)
	}
}

func TestGridEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doPost(t, r, "/api/grid/fields", `{"startRow":0,"endRow":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res dict.RowResult
	decode(t, w, &res)
	assert.Equal(t, 9, res.RowCount)
	assert.Len(t, res.RowData, 5)

	w = doPost(t, r, "/api/grid/composition", `{"startRow":0,"endRow":100,"groupKeys":["D"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, 7, res.RowCount)

	w = doPost(t, r, "/api/grid/fields", `{"startRow":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doPost(t, r, "/api/grid/widgets", `{"startRow":0,"endRow":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
