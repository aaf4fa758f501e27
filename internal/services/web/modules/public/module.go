// Package public provides the unauthenticated landing routes.
package public

import (
	"net/http"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/pagerender"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
	"github.com/helpdeck-io/helpdeck/internal/services/web/templates"
)

// Module provides public web routes.
type Module struct {
	deps module.Dependencies
}

// New returns a public module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", m.handleHome)
	return module.Mount{Prefixes: []string{routepath.Root + "{$}"}, Handler: mux}, nil
}

func (m Module) handleHome(w http.ResponseWriter, r *http.Request) {
	signedIn := false
	if m.deps.ResolveSignedIn != nil {
		signedIn = m.deps.ResolveSignedIn(r)
	}
	pagerender.WritePublicPage(w, r, "AI-assisted customer support", http.StatusOK, templates.HomePage(signedIn))
}
