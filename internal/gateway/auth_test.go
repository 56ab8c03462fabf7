package gateway

import (
	"net/http/httptest"
	"testing"
)

func TestParseAuthTokens(t *testing.T) {
	tokens := parseAuthTokens(" current , next-token ,,  ")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0] != "current" || tokens[1] != "next-token" {
		t.Fatalf("unexpected tokens: %#v", tokens)
	}
}

func TestAuthorizeRequestWithRotatingTokens(t *testing.T) {
	srv := newTestServerWithTokens(t, "current-token, next-token")

	cases := []struct {
		name       string
		token      string
		authorized bool
	}{
		{name: "current token", token: "current-token", authorized: true},
		{name: "next token", token: "next-token", authorized: true},
		{name: "unknown token", token: "wrong-token", authorized: false},
		{name: "missing token", token: "", authorized: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/docs", nil)
			if tc.token != "" {
				req.Header.Set(tokenHeader, tc.token)
			}
			if got := srv.authorizeRequest(req); got != tc.authorized {
				t.Fatalf("authorizeRequest() = %v, want %v", got, tc.authorized)
			}
		})
	}
}

func TestAuthorizeRequestNoConfiguredTokenAllowsRequest(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("GET", "/v1/docs", nil)
	if !srv.authorizeRequest(req) {
		t.Fatal("expected request to be authorized when no token is configured")
	}
}
