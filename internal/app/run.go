package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/nodeflow/internal/config"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/runstore"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
)

// Run loads the workflow, executes it once and returns the run report.
//
// Configuration errors and cycles are returned without a report. A
// structural hazard found during the run, or a cancelled ctx, is returned
// together with the report of what did run.
func (app *App) Run(ctx context.Context) (*scheduler.Report, error) {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.ctx = ctx
	app.logger.Debug("App.Run method started.")
	defer app.closeModules()

	app.healthCheckServer()
	defer app.closeHealthCheckServer()

	loader, err := config.Select(app.config.WorkflowPath, app.loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	wf, err := loader.Load(ctx, app.config.WorkflowPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	app.logger.Info("Workflow loaded.", "workflow", wf.Name, "nodes", len(wf.Nodes), "connections", len(wf.Connections))

	sess, err := app.sessionFactory.NewSession(ctx, wf, app.registry, scheduler.Options{
		Workflow:  wf.Name,
		StepDelay: app.config.StepDelay,
		MaxDepth:  app.config.MaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer sess.Close(ctx)

	g := sess.GetGraph()
	app.setActiveGraph(wf.Name, g)
	defer app.setActiveGraph("", nil)
	g.Subscribe(logObserver)
	for _, obs := range app.observers {
		g.Subscribe(obs)
	}

	detach, err := app.attachFeed(ctx, g)
	if err != nil {
		return nil, err
	}
	defer detach()

	var store *runstore.Store
	if app.config.StorePath != "" {
		store, err = runstore.Open(ctx, app.config.StorePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		if err := store.SaveWorkflow(ctx, wf); err != nil {
			return nil, err
		}
	}

	sched, err := sess.GetScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduler: %w", err)
	}

	report, runErr := sched.RunWorkflow(ctx, app.config.Seed)
	if report == nil {
		return nil, runErr
	}
	app.logSummary(report)

	if store != nil {
		if err := store.Save(ctx, report); err != nil {
			runErr = multierror.Append(runErr, err).ErrorOrNil()
		} else {
			app.logger.Info("💾 Run report saved.", "run", report.RunID, "path", app.config.StorePath)
		}
	}

	app.logger.Debug("App.Run method finished.")
	return report, runErr
}

func (app *App) logSummary(r *scheduler.Report) {
	ids := make([]string, 0, len(r.Nodes))
	for id := range r.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := r.Nodes[id]
		attrs := []any{"node", id, "status", rec.Status}
		if rec.Status == model.StatusFailed {
			attrs = append(attrs, "error", rec.LastOutput["error"])
		}
		app.logger.Info("Node result.", attrs...)
	}

	app.logger.Info("📊 Run summary.",
		"run", r.RunID,
		"duration", r.Duration(),
		"succeeded", r.Count(model.StatusSuccess),
		"failed", r.Count(model.StatusFailed),
		"idle", r.Count(model.StatusIdle),
	)
}
