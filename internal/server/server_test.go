package server_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlsift/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(cfg server.Config) http.Handler {
	return server.New(cfg).Handler()
}

func postSourceTables(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/source-tables", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type response struct {
	Tables     []string `json:"tables"`
	Statements int      `json:"statements"`
	Message    string   `json:"message"`
	Error      string   `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	h := newHandler(server.Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSourceTablesRawInput(t *testing.T) {
	h := newHandler(server.Config{})
	rec := postSourceTables(t, h, `{"input": "SELECT * FROM a JOIN b ON a.id = b.id"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, []string{"a", "b"}, resp.Tables)
	assert.Equal(t, 1, resp.Statements)
}

func TestSourceTablesFileContent(t *testing.T) {
	h := newHandler(server.Config{})
	encoded := base64.StdEncoding.EncodeToString([]byte("WITH t AS (SELECT * FROM src) SELECT * FROM t"))
	body, err := json.Marshal(map[string]string{"file_content": encoded})
	require.NoError(t, err)

	rec := postSourceTables(t, h, string(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"src"}, decode(t, rec).Tables)
}

func TestSourceTablesCamelCaseAlias(t *testing.T) {
	h := newHandler(server.Config{})
	encoded := base64.StdEncoding.EncodeToString([]byte("SELECT * FROM camel"))

	rec := postSourceTables(t, h, `{"fileContent": "`+encoded+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"camel"}, decode(t, rec).Tables)
}

func TestSourceTablesRawInputWinsOverFile(t *testing.T) {
	h := newHandler(server.Config{})
	encoded := base64.StdEncoding.EncodeToString([]byte("SELECT * FROM file_table"))

	rec := postSourceTables(t, h,
		`{"input": "SELECT * FROM raw_table", "file_content": "`+encoded+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"raw_table"}, decode(t, rec).Tables)
}

func TestSourceTablesNoInput(t *testing.T) {
	h := newHandler(server.Config{})

	for _, body := range []string{`{}`, `{"input": ""}`, `{"input": "", "file_content": ""}`} {
		rec := postSourceTables(t, h, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "No input provided", resp.Message)
		assert.Empty(t, resp.Tables)
	}
}

func TestSourceTablesInvalidBase64(t *testing.T) {
	h := newHandler(server.Config{})
	rec := postSourceTables(t, h, `{"file_content": "not-base64!!!"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "base64")
}

func TestSourceTablesInvalidUTF8(t *testing.T) {
	h := newHandler(server.Config{})
	encoded := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd})

	rec := postSourceTables(t, h, `{"file_content": "`+encoded+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "UTF-8")
}

func TestSourceTablesMalformedJSON(t *testing.T) {
	h := newHandler(server.Config{})
	rec := postSourceTables(t, h, `{"input": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourceTablesBodyTooLarge(t *testing.T) {
	h := newHandler(server.Config{MaxRequestBytes: 64})

	var buf bytes.Buffer
	buf.WriteString(`{"input": "SELECT * FROM `)
	buf.WriteString(strings.Repeat("x", 256))
	buf.WriteString(`"}`)

	rec := postSourceTables(t, h, buf.String())
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSourceTablesDefaultDatabase(t *testing.T) {
	h := newHandler(server.Config{DefaultDatabase: "default"})
	rec := postSourceTables(t, h, `{"input": "SELECT * FROM t"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"default.t"}, decode(t, rec).Tables)
}
