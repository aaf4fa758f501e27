// Package modules groups the web feature modules into mountable sets.
package modules

import (
	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules/auth"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules/dashboard"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules/public"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules/settings"
	"github.com/helpdeck-io/helpdeck/internal/services/web/modules/tickets"
)

// Module re-exports the module contract for composition callers.
type Module = module.Module

// DefaultPublicModules returns the unauthenticated web modules.
func DefaultPublicModules(deps module.Dependencies, authCfg auth.Config) []Module {
	return []Module{
		public.New(deps),
		auth.New(deps, authCfg),
	}
}

// DefaultProtectedModules returns the authenticated app modules.
func DefaultProtectedModules(deps module.Dependencies) []Module {
	return []Module{
		dashboard.New(deps),
		tickets.New(deps),
		settings.New(deps),
	}
}
