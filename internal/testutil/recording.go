package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// RecordingModule is a shared, self-contained module for scheduler tests. It
// handles one node kind, records when each node ran and what it received,
// and can be told to fail specific nodes.
//
// The output of a node is its input plus a key named after the node id, so
// tests can follow a payload along its path.
type RecordingModule struct {
	kind  model.Kind
	sleep time.Duration

	mu      sync.Mutex
	fail    map[string]error
	records map[string][]ExecutionRecord
	inputs  map[string][]model.Payload
}

// NewRecordingModule creates a module handling kind that sleeps for sleep on
// every execution.
func NewRecordingModule(kind model.Kind, sleep time.Duration) *RecordingModule {
	return &RecordingModule{
		kind:    kind,
		sleep:   sleep,
		fail:    make(map[string]error),
		records: make(map[string][]ExecutionRecord),
		inputs:  make(map[string][]model.Payload),
	}
}

// FailOn makes the node with the given id return err.
func (m *RecordingModule) FailOn(id string, err error) *RecordingModule {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[id] = err
	return m
}

// Register implements the registry.Module interface.
func (m *RecordingModule) Register(r *registry.Registry) {
	r.RegisterHandler(m.kind, m.handle)
}

func (m *RecordingModule) handle(ctx context.Context, n *model.Node, input model.Payload) (*registry.Result, error) {
	start := time.Now()
	var sleepErr error
	if m.sleep > 0 {
		t := time.NewTimer(m.sleep)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			sleepErr = ctx.Err()
		}
	}
	end := time.Now()

	m.mu.Lock()
	m.records[n.ID] = append(m.records[n.ID], ExecutionRecord{Start: start, End: end})
	m.inputs[n.ID] = append(m.inputs[n.ID], input.Clone())
	err := m.fail[n.ID]
	m.mu.Unlock()

	if sleepErr != nil {
		return nil, sleepErr
	}
	if err != nil {
		return nil, err
	}

	out := input.Clone()
	if out == nil {
		out = model.Payload{}
	}
	out[n.ID] = "done"
	return &registry.Result{Output: out}, nil
}

// Records returns the executions of a node.
func (m *RecordingModule) Records(id string) []ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records[id])
}

// Inputs returns the payloads a node received, one per execution.
func (m *RecordingModule) Inputs(id string) []model.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.inputs[id])
}

// Calls returns how many times a node was executed.
func (m *RecordingModule) Calls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[id])
}

// Executed returns the sorted ids of every node that ran at least once.
func (m *RecordingModule) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.records))
	for id := range m.records {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
