package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func newReport(started time.Time) *scheduler.Report {
	return &scheduler.Report{
		RunID:      uuid.New(),
		Workflow:   "demo",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Nodes: map[string]nodestore.Record{
			"start": {Status: model.StatusSuccess, LastOutput: model.Payload{"initialValue": "hello world"}, UpdatedAt: started},
			"fetch": {Status: model.StatusFailed, LastOutput: model.Payload{"error": "boom"}, UpdatedAt: started},
			"later": {Status: model.StatusIdle},
		},
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	want := newReport(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Get(ctx, want.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	second := newReport(base.Add(time.Minute))
	first := newReport(base)
	require.NoError(t, s.Save(ctx, second))
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.SaveWorkflow(ctx, model.NewWorkflow("ignored-by-list")))

	reports, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, first.RunID, reports[0].RunID)
	assert.Equal(t, second.RunID, reports[1].RunID)
}

func TestStore_Workflow(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	wf := model.NewWorkflow("demo")
	wf.Nodes = append(wf.Nodes,
		model.NewNode("start", model.KindStart, nil),
		model.NewNode("check", model.KindBranch, model.BranchProperties{Path: "a", Comparison: model.CompareEquals, Value: "x"}),
	)
	require.NoError(t, wf.Connect("start.out", "check.in"))
	require.NoError(t, s.SaveWorkflow(ctx, wf))

	got, err := s.Workflow(ctx, "demo")
	require.NoError(t, err)
	if diff := cmp.Diff(wf, got); diff != "" {
		t.Errorf("workflow mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Workflow(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
