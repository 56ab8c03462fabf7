package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shelf/internal/docstore"
	"shelf/internal/storage"
)

func newTestStore(t *testing.T, prefix string) *docstore.Store {
	t.Helper()
	backend := storage.NewLocalClient(t.TempDir())
	store, err := docstore.New(docstore.Config{
		Backend: backend,
		Bucket:  "media",
		Prefix:  prefix,
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithStore(t, newTestStore(t, "app"))
}

func newTestServerWithStore(t *testing.T, store Store) *Server {
	t.Helper()
	srv, err := New(Config{
		Store:  store,
		Bucket: "media",
		Prefix: "app",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func newTestServerWithTokens(t *testing.T, tokens string) *Server {
	t.Helper()
	srv, err := New(Config{
		Store:      newTestStore(t, "app"),
		Bucket:     "media",
		Prefix:     "app",
		AuthTokens: tokens,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func doRequest(srv *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func putDocument(t *testing.T, srv *Server, key, body string) {
	t.Helper()
	rr := doRequest(srv, http.MethodPut, "/v1/doc?key="+key, strings.NewReader(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("seed document %s: status %d body=%s", key, rr.Code, rr.Body.String())
	}
}

func decodeErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v body=%s", err, rr.Body.String())
	}
	return resp
}
