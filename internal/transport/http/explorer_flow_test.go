package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentlens/internal/charts"
	apierrors "studentlens/internal/errors"
	"studentlens/internal/services"
	"studentlens/internal/session"
	"studentlens/internal/shared/testutil"
)

// multipartBody builds an upload form. An empty field writes a form without
// any file part.
func multipartBody(t *testing.T, field, filename, content string) (io.Reader, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if field == "" {
		require.NoError(t, mw.WriteField("note", "nothing selected"))
	} else {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

type flowClient struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func newFlowClient(t *testing.T, detailed bool) *flowClient {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewExplorerService(session.NewMemoryStore(time.Hour), services.ExplorerOptions{
		MaxUploadBytes: 1 << 20,
		DetailedCharts: detailed,
		Charts:         charts.Options{Width: 320, Height: 240, Bins: 5},
	}, logger)

	handler := NewExplorerHandler(svc, testHandlerConfig(), logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api", handler.Routes())

	c := &flowClient{t: t, router: r}
	rec := c.do(http.MethodPost, "/api/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c.cookie = cookies[0]
	return c
}

func (c *flowClient) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *flowClient) json(method, target, body string, into interface{}) int {
	c.t.Helper()
	var r io.Reader
	contentType := ""
	if body != "" {
		r = strings.NewReader(body)
		contentType = "application/json"
	}
	rec := c.do(method, target, r, contentType)
	if into != nil && rec.Code < 300 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), into), rec.Body.String())
	}
	return rec.Code
}

func TestExplorerFlow(t *testing.T) {
	c := newFlowClient(t, true)

	var name map[string]string
	require.Equal(t, http.StatusOK, c.json(http.MethodPut, "/api/session/name", `{"name":"Ana Silva"}`, &name))
	assert.Equal(t, "valid", name["status"])

	assert.Equal(t, http.StatusConflict, c.json(http.MethodGet, "/api/session/table", "", nil))

	body, contentType := multipartBody(t, "file", "alunos.csv", testutil.StudentsCSV)
	rec := c.do(http.MethodPost, "/api/session/upload", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var upload struct {
		Accepted          bool     `json:"accepted"`
		Filename          string   `json:"filename"`
		Rows              int      `json:"rows"`
		Columns           []string `json:"columns"`
		NormalizedMissing int      `json:"normalized_missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	assert.True(t, upload.Accepted)
	assert.Equal(t, "alunos.csv", upload.Filename)
	assert.Equal(t, 5, upload.Rows)
	assert.Equal(t, 2, upload.NormalizedMissing)

	var preview struct {
		Columns   []string        `json:"columns"`
		Rows      [][]interface{} `json:"rows"`
		TotalRows int             `json:"total_rows"`
	}
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/api/session/table?limit=2", "", &preview))
	assert.Len(t, preview.Rows, 2)
	assert.Equal(t, 5, preview.TotalRows)

	assert.Equal(t, http.StatusConflict, c.json(http.MethodGet, "/api/session/statistics?column=Final_Score", "", nil))

	var clean map[string]interface{}
	require.Equal(t, http.StatusOK, c.json(http.MethodPost, "/api/session/clean", "", &clean))
	assert.EqualValues(t, 3, clean["rows_after"])
	assert.EqualValues(t, 82.5, clean["attendance_median"])

	var stats struct {
		Statistics struct {
			Mean float64 `json:"mean"`
		} `json:"statistics"`
		Gender map[string]int `json:"gender"`
	}
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/api/session/statistics?column=Final_Score", "", &stats))
	assert.InDelta(t, 46.67, stats.Statistics.Mean, 1e-9)
	assert.Equal(t, map[string]int{"female": 1, "male": 1, "other": 1}, stats.Gender)

	assert.Equal(t, http.StatusUnprocessableEntity, c.json(http.MethodGet, "/api/session/statistics?column=Gender", "", nil))

	var mode struct {
		Detailed bool     `json:"detailed"`
		Charts   []string `json:"charts"`
	}
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/api/session/charts", "", &mode))
	assert.True(t, mode.Detailed)
	assert.Len(t, mode.Charts, 4)

	rec = c.do(http.MethodGet, "/api/session/charts/age-bands", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))

	rec = c.do(http.MethodGet, "/api/session/export/csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="alunos_limpo.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeff"))

	var sess map[string]interface{}
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/api/session", "", &sess))
	assert.Equal(t, "Ana Silva", sess["name"])
	assert.EqualValues(t, 5, sess["rows"])
	assert.EqualValues(t, 3, sess["cleaned_rows"])
	assert.Equal(t, true, sess["cleaned"])

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/session", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/session", "", nil))
}

func TestExplorerFlow_SimpleCharts(t *testing.T) {
	c := newFlowClient(t, true)

	body, contentType := multipartBody(t, "file", "alunos.csv", testutil.StudentsCSV)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/session/upload", body, contentType).Code)
	require.Equal(t, http.StatusOK, c.json(http.MethodPost, "/api/session/clean", "", nil))

	var mode struct {
		Detailed bool     `json:"detailed"`
		Charts   []string `json:"charts"`
	}
	require.Equal(t, http.StatusOK, c.json(http.MethodPut, "/api/session/charts/mode", `{"detailed":false}`, &mode))
	assert.False(t, mode.Detailed)
	assert.Equal(t, []string{"age-bands", "gender"}, mode.Charts)

	rec := c.do(http.MethodGet, "/api/session/charts/distribution", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeUnknownChart)
}

func TestExplorerFlow_UnsupportedUploadKeepsDataset(t *testing.T) {
	c := newFlowClient(t, true)

	body, contentType := multipartBody(t, "file", "alunos.csv", testutil.StudentsCSV)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/session/upload", body, contentType).Code)

	body, contentType = multipartBody(t, "file", "alunos.txt", "a,b\n1,2\n")
	rec := c.do(http.MethodPost, "/api/session/upload", body, contentType)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	var sess map[string]interface{}
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/api/session", "", &sess))
	assert.Equal(t, "alunos.csv", sess["filename"])
	assert.EqualValues(t, 5, sess["rows"])
}
