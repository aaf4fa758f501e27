// Package auth provides sign-in, sign-out, and identity callback routes.
package auth

import (
	"net/http"

	"github.com/helpdeck-io/helpdeck/internal/services/web/identity"
	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/requestmeta"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// TokenIssuer mints identity tokens during form sign-in. Only the demo
// issuer implements this; production deployments rely on the callback route
// instead.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// VerifyToken validates a raw identity token.
type VerifyToken func(rawToken string) (identity.Identity, error)

// Config carries identity wiring into the auth module.
type Config struct {
	Issuer TokenIssuer
	Verify VerifyToken
	Policy requestmeta.SchemePolicy
}

// Module provides authentication routes.
type Module struct {
	deps module.Dependencies
	cfg  Config
}

// New returns an auth module.
func New(deps module.Dependencies, cfg Config) Module {
	return Module{deps: deps, cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires authentication route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: m.deps, cfg: m.cfg}
	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLoginSubmit)
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthCallback, h.handleCallback)
	return module.Mount{
		Prefixes: []string{routepath.Login, routepath.Logout, routepath.AuthPrefix},
		Handler:  mux,
	}, nil
}
