package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tomlord1122/memo-app/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func serve(g *Gate, setup func(r *http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	g.Middleware(okHandler).ServeHTTP(rec, req)
	return rec
}

func TestGateOpenMode(t *testing.T) {
	g := NewGate(config.AuthConfig{})
	assert.Equal(t, Open, g.Mode())
	assert.Equal(t, "open", g.Mode().String())

	rec := serve(g, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGateOpenModeIgnoresCredentials(t *testing.T) {
	g := NewGate(config.AuthConfig{Username: "u", Password: "p"})

	rec := serve(g, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateGuardedWithoutCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AuthConfig
	}{
		{"both missing", config.AuthConfig{IsProd: "true"}},
		{"password missing", config.AuthConfig{IsProd: "true", Username: "admin"}},
		{"username missing", config.AuthConfig{IsProd: "true", Password: "secret"}},
		{"whitespace flag", config.AuthConfig{IsProd: " "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGate(tc.cfg)
			assert.Equal(t, Guarded, g.Mode())
			assert.Equal(t, "guarded", g.Mode().String())

			rec := serve(g, func(r *http.Request) { r.SetBasicAuth("admin", "secret") })
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "auth not configured")
		})
	}
}

func TestGateGuarded(t *testing.T) {
	g := NewGate(config.AuthConfig{IsProd: "1", Username: "admin", Password: "secret"})

	t.Run("no credentials", func(t *testing.T) {
		rec := serve(g, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="Secure Area"`, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := serve(g, func(r *http.Request) { r.SetBasicAuth("admin", "nope") })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong user", func(t *testing.T) {
		rec := serve(g, func(r *http.Request) { r.SetBasicAuth("root", "secret") })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid", func(t *testing.T) {
		rec := serve(g, func(r *http.Request) { r.SetBasicAuth("admin", "secret") })
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}

func TestGateCustomRealm(t *testing.T) {
	g := NewGate(config.AuthConfig{IsProd: "1", Username: "a", Password: "b", Realm: "memos"})

	rec := serve(g, nil)
	assert.Equal(t, `Basic realm="memos"`, rec.Header().Get("WWW-Authenticate"))
}
