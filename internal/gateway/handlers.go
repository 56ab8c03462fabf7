package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shelf/internal/docstore"
	"shelf/internal/errs"
)

const (
	maxJSONRequestBodyBytes = 1 << 20
	maxBlobRequestBodyBytes = 32 << 20
)

const (
	transferCopy = "copy"
	transferMove = "move"
)

func (s *Server) newHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/doc", s.requireAuth(s.handleDocument))
	mux.HandleFunc("/v1/doc/update", s.requireAuth(s.handleUpdateDocument))
	mux.HandleFunc("/v1/doc/exists", s.requireAuth(s.handleDocumentExists))
	mux.HandleFunc("/v1/doc/copy", s.requireAuth(s.handleCopyDocument))
	mux.HandleFunc("/v1/doc/move", s.requireAuth(s.handleMoveDocument))
	mux.HandleFunc("/v1/docs", s.requireAuth(s.handleListDocuments))
	mux.HandleFunc("/v1/blob", s.requireAuth(s.handleBlob))
	mux.HandleFunc("/v1/blob/exists", s.requireAuth(s.handleBlobExists))
	mux.HandleFunc("/v1/blobs", s.requireAuth(s.handleListBlobs))
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{
		State:     "ready",
		Bucket:    s.bucket,
		Prefix:    s.prefix,
		StartedAt: s.startedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetDocument(w, r)
	case http.MethodPut:
		s.handlePutDocument(w, r)
	case http.MethodDelete:
		s.handleDeleteDocument(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}

	text, err := s.store.GetString(r.Context(), key)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	// Served verbatim: the stored text keeps whatever formatting the
	// writer chose.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}

	body, err := readRequestBody(w, r, maxJSONRequestBodyBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("read request: %v", err))
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "request body is required")
		return
	}

	var opts []docstore.PutOption
	if parseBoolQuery(r, "pretty") {
		opts = append(opts, docstore.WithPretty())
	}

	// RawMessage keeps numbers exactly as sent; Put's re-encode rejects
	// bodies that are not valid JSON.
	if err := s.store.Put(r.Context(), key, json.RawMessage(body), opts...); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), key); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := decodeJSONRequest(w, r, &fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("decode request: %v", err))
		return
	}

	if err := s.store.Update(r.Context(), key, fields); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDocumentExists(w http.ResponseWriter, r *http.Request) {
	s.handleExists(w, r, s.store.Exists)
}

func (s *Server) handleBlobExists(w http.ResponseWriter, r *http.Request) {
	s.handleExists(w, r, s.store.ExistsRaw)
}

func (s *Server) handleExists(w http.ResponseWriter, r *http.Request, exists func(context.Context, string) (bool, error)) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}

	found, err := exists(r.Context(), key)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, existsResponse{Exists: found})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.handleList(w, r, s.store.List)
}

func (s *Server) handleListBlobs(w http.ResponseWriter, r *http.Request) {
	s.handleList(w, r, s.store.ListRaw)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, list func(context.Context, string) ([]string, error)) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	subPath := strings.TrimSpace(r.URL.Query().Get("path"))
	keys, err := list(r.Context(), subPath)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, keysResponse{Keys: keys})
}

func (s *Server) handleCopyDocument(w http.ResponseWriter, r *http.Request) {
	s.handleTransfer(w, r, transferCopy)
}

func (s *Server) handleMoveDocument(w http.ResponseWriter, r *http.Request) {
	s.handleTransfer(w, r, transferMove)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request, op string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req transferRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("decode request: %v", err))
		return
	}
	source := strings.TrimSpace(req.Source)
	destination := strings.TrimSpace(req.Destination)
	if source == "" || destination == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "source and destination are required")
		return
	}

	var err error
	switch {
	case op == transferCopy && req.FullyQualified:
		err = s.store.CopyFullyQualified(r.Context(), source, destination)
	case op == transferCopy:
		err = s.store.Copy(r.Context(), source, destination)
	case req.FullyQualified:
		err = s.store.MoveFullyQualified(r.Context(), source, destination)
	default:
		err = s.store.Move(r.Context(), source, destination)
	}
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	status := "copied"
	if op == transferMove {
		status = "moved"
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetBlob(w, r)
	case http.MethodPut:
		s.handlePutBlob(w, r)
	case http.MethodDelete:
		s.handleDeleteBlob(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}

	data, err := s.store.GetRaw(r.Context(), key)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePutBlob(w http.ResponseWriter, r *http.Request) {
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}

	data, err := readRequestBody(w, r, maxBlobRequestBodyBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("read request: %v", err))
		return
	}
	if err := s.store.PutRaw(r.Context(), key, data); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

func (s *Server) handleDeleteBlob(w http.ResponseWriter, r *http.Request) {
	key, ok := s.requestKey(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteRaw(r.Context(), key); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) requestKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "key query parameter is required")
		return "", false
	}
	return key, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errs.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errs.IsSourceNotFound(err):
		s.writeError(w, http.StatusNotFound, "source_not_found", err.Error())
	case errs.IsValidation(err):
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errs.IsParse(err):
		s.log.Error().Err(err).Msg("stored document is not valid JSON")
		s.writeError(w, http.StatusInternalServerError, "parse_failed", err.Error())
	default:
		s.log.Error().Err(err).Msg("backend request failed")
		s.writeError(w, http.StatusInternalServerError, "backend_failed", err.Error())
	}
}

func decodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONRequestBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func readRequestBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	return io.ReadAll(r.Body)
}

func parseBoolQuery(r *http.Request, name string) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false
	}
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, message string) {
	s.writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
