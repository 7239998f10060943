package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlsift/pkg/extract"
)

// noInputMessage is the sentinel returned when a request carries neither
// raw input nor file content. Clients match on it, so the wording is
// fixed.
const noInputMessage = "No input provided"

// extractRequest is the source-tables request body. FileContent carries
// base64-encoded file bytes; FileContentAlt accepts the camelCase key
// some clients send.
type extractRequest struct {
	Input          string `json:"input"`
	FileContent    string `json:"file_content"`
	FileContentAlt string `json:"fileContent"`
}

// extractResponse is the source-tables response body.
type extractResponse struct {
	Tables     []string `json:"tables"`
	Statements int      `json:"statements"`
	Message    string   `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSourceTables(w http.ResponseWriter, r *http.Request) {
	if s.maxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	encoded := req.FileContent
	if encoded == "" {
		encoded = req.FileContentAlt
	}

	sqlText := req.Input
	if sqlText == "" && encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid file_content: not valid base64")
			return
		}
		if !utf8.Valid(decoded) {
			writeError(w, http.StatusBadRequest, "invalid file_content: not valid UTF-8")
			return
		}
		sqlText = string(decoded)
	}

	if sqlText == "" {
		writeJSON(w, http.StatusOK, extractResponse{
			Tables:  []string{},
			Message: noInputMessage,
		})
		return
	}

	report := extract.Extract(sqlText, extract.Options{
		DefaultDatabase: s.defaultDatabase,
	})

	writeJSON(w, http.StatusOK, extractResponse{
		Tables:     report.Tables,
		Statements: report.Statements,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
