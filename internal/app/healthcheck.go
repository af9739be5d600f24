package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/graph"
)

// healthStatus is the body served on /health.
type healthStatus struct {
	Status   string         `json:"status"`
	Workflow string         `json:"workflow,omitempty"`
	Nodes    map[string]int `json:"nodes,omitempty"`
}

// healthHandler answers health checks. While a workflow is loaded it also
// reports how many of its nodes are in each status.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)

	body := healthStatus{Status: "ok"}
	if name, g := app.activeGraph(); g != nil {
		body.Workflow = name
		body.Nodes = make(map[string]int)
		for _, rec := range g.Snapshot(r.Context()) {
			body.Nodes[rec.Status.String()]++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to write health check response.", "error", err)
	}
}

func (app *App) setActiveGraph(name string, g graph.Graph) {
	app.activeMu.Lock()
	defer app.activeMu.Unlock()
	app.activeName, app.active = name, g
}

func (app *App) activeGraph() (string, graph.Graph) {
	app.activeMu.Lock()
	defer app.activeMu.Unlock()
	return app.activeName, app.active
}

// healthCheckServer initializes and runs the health check HTTP server.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
