// Package settings provides dashboard-local preference routes.
package settings

import (
	"net/http"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/routepath"
)

// Module provides authenticated settings routes.
type Module struct {
	deps module.Dependencies
}

// New returns a settings module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "settings" }

// Mount wires settings route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.deps.Preferences), m.deps)
	registerRoutes(mux, h)
	return module.Mount{Prefixes: []string{routepath.AppSettings, routepath.SettingsPrefix}, Handler: mux}, nil
}

// Healthy reports whether the module has a configured store.
func (m Module) Healthy() bool {
	return m.deps.Preferences != nil
}
