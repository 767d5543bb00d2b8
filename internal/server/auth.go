package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// guard validates the shared trigger secret. An empty configured secret
// fails every caller: the endpoint is closed until a secret is set.
type guard struct {
	secret []byte
}

func newGuard(secret string) *guard {
	return &guard{secret: []byte(strings.TrimSpace(secret))}
}

// configured reports whether a trigger secret has been set.
func (g *guard) configured() bool {
	return len(g.secret) > 0
}

// allow checks the request's secret, taken from the ?secret= query parameter
// or an Authorization: Bearer header, in constant time.
func (g *guard) allow(r *http.Request) bool {
	return g.validSecret(extractSecret(r))
}

func (g *guard) validSecret(v string) bool {
	vb := []byte(strings.TrimSpace(v))
	if len(vb) == 0 || len(g.secret) == 0 {
		return false
	}
	if len(vb) != len(g.secret) {
		return false
	}
	return subtle.ConstantTimeCompare(vb, g.secret) == 1
}

func extractSecret(r *http.Request) string {
	if s := r.URL.Query().Get("secret"); s != "" {
		return s
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
