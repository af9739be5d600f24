package app

import (
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/specialistvlad/nodeflow/modules/branch"
	"github.com/specialistvlad/nodeflow/modules/http_request"
	"github.com/specialistvlad/nodeflow/modules/merge"
	"github.com/specialistvlad/nodeflow/modules/simple"
	"github.com/specialistvlad/nodeflow/modules/start"
)

// coreModules is the definitive list of all modules that are compiled into
// the nodeflow binary, one per node kind.
func coreModules(cfg *Config) []registry.Module {
	return []registry.Module{
		&start.Module{},
		&simple.Module{},
		&http_request.Module{
			ProxyBaseURL: cfg.ProxyBaseURL,
			Timeout:      cfg.HTTPTimeout,
		},
		&branch.Module{},
		&merge.Module{},
	}
}
