package inmemorytopology

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/topologystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, s topologystore.Store, from, to string) {
	t.Helper()
	f, err := model.ParseEndpoint(from)
	require.NoError(t, err)
	tt, err := model.ParseEndpoint(to)
	require.NoError(t, err)
	require.NoError(t, s.AddConnection(context.Background(), model.Connection{From: f, To: tt}))
}

func TestAddAndGetNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	testNode := model.NewNode("a", model.KindSimple, nil)

	// Add the node
	err := s.AddNode(ctx, testNode)
	require.NoError(t, err)

	// Adding it again is idempotent
	require.NoError(t, s.AddNode(ctx, testNode))

	// Get the node
	retrievedNode, ok := s.Node(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, testNode, retrievedNode)
	assert.Len(t, s.AllNodes(ctx), 1)
}

func TestAddNode_RejectsInvalidShape(t *testing.T) {
	s := New()
	n := model.NewNode("b", model.KindBranch, model.BranchProperties{Path: "x", Comparison: "equals"})
	n.Outputs = n.Outputs[:1]

	err := s.AddNode(context.Background(), n)
	require.Error(t, err)
	_, ok := s.Node(context.Background(), "b")
	assert.False(t, ok)
}

func TestAllNodes_PreservesInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.AddNode(ctx, model.NewNode(id, model.KindSimple, nil)))
	}

	var ids []string
	for _, n := range s.AllNodes(ctx) {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestFindStartNode(t *testing.T) {
	ctx := context.Background()

	t.Run("no start node", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddNode(ctx, model.NewNode("a", model.KindSimple, nil)))
		_, err := s.FindStartNode(ctx)
		assert.ErrorIs(t, err, model.ErrNoStartNode)
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})

	t.Run("unique start node", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddNode(ctx, model.NewNode("a", model.KindSimple, nil)))
		require.NoError(t, s.AddNode(ctx, model.NewNode("begin", model.KindStart, nil)))
		start, err := s.FindStartNode(ctx)
		require.NoError(t, err)
		assert.Equal(t, "begin", start.ID)
	})

	t.Run("two start nodes", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddNode(ctx, model.NewNode("s1", model.KindStart, nil)))
		require.NoError(t, s.AddNode(ctx, model.NewNode("s2", model.KindStart, nil)))
		_, err := s.FindStartNode(ctx)
		assert.ErrorIs(t, err, model.ErrMultipleStartNodes)
	})
}

func TestConnections(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, model.NewNode("start", model.KindStart, nil)))
	require.NoError(t, s.AddNode(ctx, model.NewNode("a", model.KindSimple, nil)))
	require.NoError(t, s.AddNode(ctx, model.NewNode("b", model.KindSimple, nil)))
	require.NoError(t, s.AddNode(ctx, model.NewNode("join", model.KindMerge, nil)))

	connect(t, s, "start.out", "a.in")
	connect(t, s, "start.out", "b.in")
	// Added out of port order on purpose.
	connect(t, s, "b.out", "join.in2")
	connect(t, s, "a.out", "join.in1")

	out := s.OutgoingConnections(ctx, "start")
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].To.NodeID)
	assert.Equal(t, "b", out[1].To.NodeID)

	in := s.IncomingConnections(ctx, "join")
	require.Len(t, in, 2)
	assert.Equal(t, "in1", in[0].To.PortID)
	assert.Equal(t, "in2", in[1].To.PortID)

	assert.Empty(t, s.OutgoingConnections(ctx, "join"))
	assert.Empty(t, s.OutgoingConnections(ctx, "ghost"))
}

func TestAddConnection_Errors(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddNode(ctx, model.NewNode("start", model.KindStart, nil)))
	require.NoError(t, s.AddNode(ctx, model.NewNode("a", model.KindSimple, nil)))
	require.NoError(t, s.AddNode(ctx, model.NewNode("b", model.KindSimple, nil)))

	testCases := []struct {
		name    string
		from    model.Endpoint
		to      model.Endpoint
		wantErr error
	}{
		{
			name:    "unknown source",
			from:    model.Endpoint{NodeID: "ghost", PortID: "out"},
			to:      model.Endpoint{NodeID: "a", PortID: "in"},
			wantErr: model.ErrNodeNotFound,
		},
		{
			name:    "unknown target",
			from:    model.Endpoint{NodeID: "start", PortID: "out"},
			to:      model.Endpoint{NodeID: "ghost", PortID: "in"},
			wantErr: model.ErrNodeNotFound,
		},
		{
			name:    "source is an input port",
			from:    model.Endpoint{NodeID: "a", PortID: "in"},
			to:      model.Endpoint{NodeID: "b", PortID: "in"},
			wantErr: model.ErrPortNotFound,
		},
		{
			name:    "target is an output port",
			from:    model.Endpoint{NodeID: "start", PortID: "out"},
			to:      model.Endpoint{NodeID: "a", PortID: "out"},
			wantErr: model.ErrPortNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.AddConnection(ctx, model.Connection{From: tc.from, To: tc.to})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("fan-in violation", func(t *testing.T) {
		connect(t, s, "start.out", "a.in")
		err := s.AddConnection(ctx, model.Connection{
			From: model.Endpoint{NodeID: "b", PortID: "out"},
			To:   model.Endpoint{NodeID: "a", PortID: "in"},
		})
		assert.ErrorIs(t, err, model.ErrFanInViolation)
		assert.Len(t, s.IncomingConnections(ctx, "a"), 1)
	})
}

func TestResolveEndpoint(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddNode(ctx, model.NewNode("check", model.KindBranch, model.BranchProperties{Path: "x", Comparison: "equals"})))

	p, err := s.ResolveEndpoint(ctx, "check", "true")
	require.NoError(t, err)
	assert.Equal(t, "true", p.Label)
	assert.Equal(t, model.DirectionOutput, p.Direction)

	p, err = s.ResolveEndpoint(ctx, "check", "in")
	require.NoError(t, err)
	assert.Equal(t, model.DirectionInput, p.Direction)

	_, err = s.ResolveEndpoint(ctx, "check", "maybe")
	assert.ErrorIs(t, err, model.ErrPortNotFound)

	_, err = s.ResolveEndpoint(ctx, "ghost", "in")
	assert.ErrorIs(t, err, model.ErrNodeNotFound)
}

// TestStore_ConcurrentReads verifies that many goroutines can read the
// topology while it is being extended.
func TestStore_ConcurrentReads(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, model.NewNode("start", model.KindStart, nil)))

	numGoroutines := 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("n%d", i)
			if err := s.AddNode(ctx, model.NewNode(id, model.KindSimple, nil)); err != nil {
				t.Errorf("add node: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.FindStartNode(ctx)
			_ = s.OutgoingConnections(ctx, "start")
			_ = s.AllNodes(ctx)
		}()
	}
	wg.Wait()

	assert.Len(t, s.AllNodes(ctx), numGoroutines+1)
}
