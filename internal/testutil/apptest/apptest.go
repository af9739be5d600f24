// Package apptest runs whole workflows through the application for
// integration tests.
package apptest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/nodeflow/internal/app"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
	"github.com/specialistvlad/nodeflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Timeout bounds a single integration run.
const Timeout = 10 * time.Second

// Result holds the outcome of an integration run.
type Result struct {
	Report *scheduler.Report
	Err    error
	Logs   *testutil.SafeBuffer
	Events *testutil.EventRecorder
}

// Run writes files into a temporary directory, points the app at it and
// runs the workflow once. Without modules the app's core set is used.
func Run(t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *Result {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	if cfg.WorkflowPath == "" {
		cfg.WorkflowPath = dir
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a := app.NewApp(logs, config, modules...)
	events := &testutil.EventRecorder{}
	a.Observe(events.Observe)

	t.Cleanup(func() {
		if os.Getenv("NODEFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	report, err := a.Run(ctx)
	return &Result{Report: report, Err: err, Logs: logs, Events: events}
}
