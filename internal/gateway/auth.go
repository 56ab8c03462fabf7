package gateway

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const tokenHeader = "X-Shelf-Token"

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorizeRequest(r) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid access token")
			return
		}
		next(w, r)
	}
}

// authorizeRequest accepts any configured token so a rotation can keep
// the previous token valid while clients switch over.
func (s *Server) authorizeRequest(r *http.Request) bool {
	tokens := parseAuthTokens(s.authTokens)
	if len(tokens) == 0 {
		return true
	}

	candidate := strings.TrimSpace(r.Header.Get(tokenHeader))
	if candidate == "" {
		return false
	}

	matched := 0
	for _, token := range tokens {
		matched |= subtle.ConstantTimeCompare([]byte(token), []byte(candidate))
	}
	return matched == 1
}

func parseAuthTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
