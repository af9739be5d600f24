package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/nodeflow/internal/config"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/hcl"
	"github.com/specialistvlad/nodeflow/internal/localsession"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/specialistvlad/nodeflow/internal/session"
	"github.com/specialistvlad/nodeflow/internal/snapshot"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW           io.Writer
	logger         *slog.Logger
	ctx            context.Context
	config         *Config
	registry       *registry.Registry
	modules        []registry.Module
	loaders        []config.Loader
	sessionFactory session.SessionFactory
	observers      []nodestore.Observer

	httpServer *http.Server
	feedServer *http.Server

	activeMu   sync.Mutex
	activeName string
	active     graph.Graph
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Without explicit modules the core module set is registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules(cfg)
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	return &App{
		outW:           outW,
		logger:         logger,
		ctx:            ctx,
		config:         cfg,
		registry:       reg,
		modules:        modules,
		loaders:        []config.Loader{hcl.NewLoader(), snapshot.NewLoader()},
		sessionFactory: &localsession.SessionFactory{},
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Observe subscribes extra observers to the status store of every run
// started by Run.
func (a *App) Observe(obs ...nodestore.Observer) {
	a.observers = append(a.observers, obs...)
}

// closeModules releases module resources such as pooled HTTP connections.
func (a *App) closeModules() {
	for _, m := range a.modules {
		if c, ok := m.(io.Closer); ok {
			if err := c.Close(); err != nil {
				a.logger.Warn("Failed to close module.", "module", m, "error", err)
			}
		}
	}
}
