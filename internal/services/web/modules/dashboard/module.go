// Package dashboard provides the authenticated analytics overview.
package dashboard

import (
	"net/http"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// Module provides authenticated dashboard routes.
type Module struct {
	deps module.Dependencies
}

// New returns a dashboard module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "dashboard" }

// Mount wires dashboard route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.deps.Support), m.deps)
	registerRoutes(mux, h)
	return module.Mount{Prefixes: []string{routepath.AppDashboard, routepath.DashboardPrefix}, Handler: mux}, nil
}

// Healthy reports whether the module has a configured gateway.
func (m Module) Healthy() bool {
	return m.deps.Support != nil
}
