// Package auth provides the optional basic-auth gate in front of every route.
package auth

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/memo-app/internal/config"
)

// Mode says whether requests must carry credentials.
type Mode int

const (
	// Open lets every request through.
	Open Mode = iota
	// Guarded requires HTTP basic credentials.
	Guarded
)

func (m Mode) String() string {
	if m == Guarded {
		return "guarded"
	}
	return "open"
}

// Gate is resolved once at startup from AuthConfig.
type Gate struct {
	mode     Mode
	realm    string
	username string
	password string
}

// NewGate builds a Gate. The mode is Guarded whenever IS_PROD is set, even if
// the credentials are missing; in that case every request fails with 500.
func NewGate(cfg config.AuthConfig) *Gate {
	g := &Gate{
		mode:     Open,
		realm:    cfg.Realm,
		username: cfg.Username,
		password: cfg.Password,
	}
	if cfg.Guarded() {
		g.mode = Guarded
	}
	if g.realm == "" {
		g.realm = "Secure Area"
	}
	return g
}

// Mode returns the mode resolved at startup.
func (g *Gate) Mode() Mode {
	return g.mode
}

func (g *Gate) configured() bool {
	return g.username != "" && g.password != ""
}

// Middleware returns the http middleware enforcing the gate.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	if g.mode == Open {
		return next
	}

	if !g.configured() {
		log.Printf("auth: guarded mode enabled but AUTH_USERNAME/AUTH_PASSWORD are not set")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "auth not configured", http.StatusInternalServerError)
		})
	}

	return middleware.BasicAuth(g.realm, map[string]string{g.username: g.password})(next)
}
