package app

import (
	"github.com/specialistvlad/flowexport/internal/provider"
	"github.com/specialistvlad/flowexport/internal/provider/platforms"
)

// coreModules is the definitive list of the platform modules compiled into
// the flowexport binary.
var coreModules = platforms.All

func newRegistry(modules []provider.Module) *provider.Registry {
	if len(modules) == 0 {
		modules = coreModules
	}
	return provider.NewRegistry(modules...)
}
