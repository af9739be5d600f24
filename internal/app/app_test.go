package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/specialistvlad/nodeflow/internal/runstore"
	"github.com/specialistvlad/nodeflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates a new app instance with debug logging captured in a
// buffer. Set NODEFLOW_TEST_LOGS=true to print the logs.
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(logBuffer, config, modules...)

	t.Cleanup(func() {
		if os.Getenv("NODEFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}

func writeWorkflow(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const branchingHCL = `
workflow "greeting" {}

node "start" "begin" {}

node "branch" "check" {
  path       = "initialValue"
  comparison = "equals"
  value      = "hello world"
}

node "simple" "yes" {}
node "simple" "no" {}

connection {
  from = "begin.out"
  to   = "check.in"
}

connection {
  from = "check.true"
  to   = "yes.in"
}

connection {
  from = "check.false"
  to   = "no.in"
}
`

func TestRun_HCLWorkflow(t *testing.T) {
	path := writeWorkflow(t, "flow.hcl", branchingHCL)
	app, logs := setupAppTest(t, Config{WorkflowPath: path})

	report, err := app.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "greeting", report.Workflow)
	assert.Equal(t, model.StatusSuccess, report.Nodes["yes"].Status)
	assert.Equal(t, model.StatusIdle, report.Nodes["no"].Status)
	assert.Equal(t, "yes", report.Nodes["yes"].LastOutput["processedBy"])
	assert.Equal(t, "hello world", report.Nodes["yes"].LastOutput["initialValue"])

	assert.Contains(t, logs.String(), "Starting workflow run")
	assert.Contains(t, logs.String(), "Run summary")
}

func TestRun_ObserversSeeStatusChanges(t *testing.T) {
	path := writeWorkflow(t, "flow.hcl", branchingHCL)
	app, _ := setupAppTest(t, Config{WorkflowPath: path})
	events := &testutil.EventRecorder{}
	app.Observe(events.Observe)

	_, err := app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, events.Count("check", model.StatusRunning))
	assert.Equal(t, 1, events.Count("yes", model.StatusSuccess))
	assert.Zero(t, events.Count("no", model.StatusRunning))
}

func TestRun_SnapshotWorkflowWithSeed(t *testing.T) {
	path := writeWorkflow(t, "flow.json", `{
  "nodes": [
    {"id": "begin", "kind": "start", "properties": []},
    {"id": "check", "kind": "branch", "properties": [
      {"name": "path", "type": "text", "value": "initialValue"},
      {"name": "comparison", "type": "select", "value": "equals"},
      {"name": "value", "type": "text", "value": "hello world"}
    ]}
  ],
  "connections": [
    {"from": {"nodeId": "begin", "portId": "out"}, "to": {"nodeId": "check", "portId": "in"}}
  ]
}`)
	app, _ := setupAppTest(t, Config{WorkflowPath: path, Seed: model.Payload{"initialValue": "bye"}})

	report, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "flow", report.Workflow)
	assert.Equal(t, model.Payload{"initialValue": "bye"}, report.Nodes["check"].LastOutput)
}

func TestRun_ConfigurationErrorHasNoReport(t *testing.T) {
	path := writeWorkflow(t, "flow.hcl", `node "simple" "orphan" {}`)
	app, _ := setupAppTest(t, Config{WorkflowPath: path})

	report, err := app.Run(context.Background())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, model.ErrNoStartNode)
}

func TestRun_LoadError(t *testing.T) {
	app, _ := setupAppTest(t, Config{WorkflowPath: filepath.Join(t.TempDir(), "missing.hcl")})

	_, err := app.Run(context.Background())
	assert.ErrorContains(t, err, "failed to load workflow")
}

func TestRun_PersistsReport(t *testing.T) {
	path := writeWorkflow(t, "flow.hcl", branchingHCL)
	storePath := t.TempDir()
	app, _ := setupAppTest(t, Config{WorkflowPath: path, StorePath: storePath})

	report, err := app.Run(context.Background())
	require.NoError(t, err)

	ctx := context.Background()
	store, err := runstore.Open(ctx, storePath)
	require.NoError(t, err)
	defer store.Close()

	saved, err := store.Get(ctx, report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.Workflow, saved.Workflow)

	wf, err := store.Workflow(ctx, "greeting")
	require.NoError(t, err)
	assert.Len(t, wf.Nodes, 4)
}

func TestRun_CancelledDuringStepDelay(t *testing.T) {
	path := writeWorkflow(t, "flow.hcl", branchingHCL)
	app, _ := setupAppTest(t, Config{WorkflowPath: path, StepDelay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report, err := app.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, report)
	assert.Equal(t, model.StatusIdle, report.Nodes["yes"].Status)
}

func TestHealthHandler(t *testing.T) {
	app, _ := setupAppTest(t, Config{WorkflowPath: "unused.hcl"})

	rec := httptest.NewRecorder()
	app.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandler_ReportsActiveWorkflow(t *testing.T) {
	app, _ := setupAppTest(t, Config{WorkflowPath: "unused.hcl"})
	g := testutil.NewGraph(t, testutil.NewWorkflow(t, "greeting").
		Node("begin", model.KindStart, nil).
		Node("a", model.KindSimple, nil).
		Node("b", model.KindSimple, nil).
		Connect("begin.out", "a.in").
		Connect("begin.out", "b.in").
		Build())
	ctx := context.Background()
	require.NoError(t, g.MarkSucceeded(ctx, "begin", model.Payload{}))
	require.NoError(t, g.MarkRunning(ctx, "a"))
	app.setActiveGraph("greeting", g)

	rec := httptest.NewRecorder()
	app.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","workflow":"greeting","nodes":{"success":1,"running":1,"idle":1}}`, rec.Body.String())
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name       string
		level      string
		format     string
		wantInBody []string
	}{
		{name: "json", level: "debug", format: LogFormatJSON, wantInBody: []string{`"msg":"debug message"`, `"level":"DEBUG"`}},
		{name: "text", level: "info", format: LogFormatText, wantInBody: []string{`msg="hello"`}},
		{name: "unknown format falls back to text", level: "info", format: "xml", wantInBody: []string{`msg="Unknown log format, using text." format=xml`}},
		{name: "unknown level falls back to info", level: "trace", format: LogFormatText, wantInBody: []string{`level=trace`}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &testutil.SafeBuffer{}
			logger := newLogger(tc.level, tc.format, buf)
			logger.Debug("debug message")
			logger.Info("hello")
			for _, want := range tc.wantInBody {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{WorkflowPath: "flow.hcl"})
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, DefaultSeed, cfg.Seed)
	})

	testCases := []struct {
		name string
		cfg  Config
	}{
		{name: "missing workflow path", cfg: Config{}},
		{name: "bad log format", cfg: Config{WorkflowPath: "x", LogFormat: "xml"}},
		{name: "bad log level", cfg: Config{WorkflowPath: "x", LogLevel: "trace"}},
		{name: "negative port", cfg: Config{WorkflowPath: "x", HealthcheckPort: -1}},
		{name: "bad feed url", cfg: Config{WorkflowPath: "x", FeedURL: "not a url"}},
		{name: "negative step delay", cfg: Config{WorkflowPath: "x", StepDelay: -time.Second}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}
