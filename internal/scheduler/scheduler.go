package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/executor"
	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxDepth bounds the length of any chain of descents within a run.
const DefaultMaxDepth = 10000

// Options tunes a DefaultScheduler.
type Options struct {
	// Workflow is the name recorded in reports.
	Workflow string
	// StepDelay is slept after every completed node. It makes progress
	// observable on the status feed and is zero for headless runs.
	StepDelay time.Duration
	// MaxDepth bounds recursion. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultScheduler is the reference implementation of the Scheduler interface.
//
// Runs on the same scheduler are serialized: they share one node store, and
// every run starts by resetting it.
type DefaultScheduler struct {
	graph    graph.Graph
	executor executor.Executor
	registry *registry.Registry
	opts     Options

	runMu sync.Mutex
	now   func() time.Time
}

// New creates a new default scheduler.
func New(g graph.Graph, exec executor.Executor, reg *registry.Registry, opts Options) *DefaultScheduler {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &DefaultScheduler{
		graph:    g,
		executor: exec,
		registry: reg,
		opts:     opts,
		now:      time.Now,
	}
}

// RunWorkflow implements the Scheduler interface.
func (s *DefaultScheduler) RunWorkflow(ctx context.Context, seed model.Payload) (*Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	r := &run{
		id:        uuid.New(),
		scheduler: s,
		visited:   make(map[string]struct{}),
	}
	logger := ctxlog.FromContext(ctx).With("run", r.id.String())
	ctx = ctxlog.WithLogger(WithRunID(ctx, r.id), logger)

	logger.Debug("Running pre-flight checks.")
	start, err := s.preflight(ctx, r)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     r.id,
		Workflow:  s.opts.Workflow,
		StartedAt: s.now(),
	}

	if err := s.graph.ResetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset node state: %w", err)
	}

	logger.Info("🚀 Starting workflow run...", "start", start.ID, "nodes", len(r.reachable))
	runErr := r.runFrom(ctx, start, seed, 0)

	report.FinishedAt = s.now()
	report.Nodes = s.graph.Snapshot(ctx)

	if runErr == nil {
		runErr = r.hazardErr()
	}
	if runErr != nil {
		logger.Warn("Workflow run stopped.", "error", runErr)
		return report, runErr
	}

	logger.Info("🏁 Workflow run finished.",
		"succeeded", report.Count(model.StatusSuccess),
		"failed", report.Count(model.StatusFailed),
		"duration", report.Duration())
	return report, nil
}

// preflight validates the graph before anything is written to the store.
func (s *DefaultScheduler) preflight(ctx context.Context, r *run) (*model.Node, error) {
	start, err := s.graph.StartNode(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.graph.DetectCycles(ctx, start.ID); err != nil {
		return nil, err
	}

	ids := s.graph.Reachable(ctx, start.ID)
	r.reachable = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		r.reachable[id] = struct{}{}
	}

	kinds := make([]model.Kind, 0, len(ids))
	r.joins = make(map[string]*join)
	for _, id := range ids {
		n, ok := s.graph.Node(ctx, id)
		if !ok {
			return nil, fmt.Errorf("reachable node '%s': %w", id, model.ErrNodeNotFound)
		}
		kinds = append(kinds, n.Kind)
		if n.Kind == model.KindMerge {
			r.joins[id] = newJoin(s.graph.Incoming(ctx, id), r.reachable)
		}
	}

	if err := s.registry.Validate(ctx, kinds); err != nil {
		return nil, err
	}
	return start, nil
}

// run is the state of a single RunWorkflow call.
type run struct {
	id        uuid.UUID
	scheduler *DefaultScheduler
	reachable map[string]struct{}
	joins     map[string]*join

	mu      sync.Mutex
	visited map[string]struct{}
	hazards *multierror.Error
}

func (r *run) hazard(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hazards = multierror.Append(r.hazards, err)
}

func (r *run) hazardErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hazards.ErrorOrNil()
}

// enter records a visit to a non-merge node and reports whether it is the first.
func (r *run) enter(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.visited[id]; seen {
		return false
	}
	r.visited[id] = struct{}{}
	return true
}

// runFrom executes n with input and descends into its successors.
func (r *run) runFrom(ctx context.Context, n *model.Node, input model.Payload, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.guard(n, depth) {
		return nil
	}

	s := r.scheduler
	res, err := s.executor.Execute(ctx, n, input)
	if err != nil {
		var execErr *model.ExecutionError
		if !errors.As(err, &execErr) {
			return err
		}
		// The failure is already recorded on the node; only this branch stops.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return r.fanOut(ctx, n, nil, depth)
	}

	if err := r.delay(ctx); err != nil {
		return err
	}
	return r.fanOut(ctx, n, res, depth)
}

// skipFrom forwards skip tokens from n without running it.
func (r *run) skipFrom(ctx context.Context, n *model.Node, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.guard(n, depth) {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Node skipped.", "node", n.ID)
	return r.fanOut(ctx, n, nil, depth)
}

// guard applies the depth bound and, for non-merge nodes, the revisit check.
func (r *run) guard(n *model.Node, depth int) bool {
	if depth > r.scheduler.opts.MaxDepth {
		r.hazard(fmt.Errorf("%w: depth limit %d exceeded at '%s'", model.ErrRevisit, r.scheduler.opts.MaxDepth, n.ID))
		return false
	}
	if n.Kind != model.KindMerge && !r.enter(n.ID) {
		r.hazard(fmt.Errorf("%w: '%s'", model.ErrRevisit, n.ID))
		return false
	}
	return true
}

func (r *run) delay(ctx context.Context) error {
	d := r.scheduler.opts.StepDelay
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fanOut delivers res to every followed outgoing connection of n and a skip
// token to the others, concurrently, and waits for all of them. A nil res
// skips every connection.
func (r *run) fanOut(ctx context.Context, n *model.Node, res *registry.Result, depth int) error {
	s := r.scheduler
	conns := s.graph.Outgoing(ctx, n.ID)
	if len(conns) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, c := range conns {
		follow := res != nil && (res.Port == "" || c.From.PortID == res.Port)
		var payload model.Payload
		if follow {
			payload = res.Output.Clone()
		}
		g.Go(func() error {
			return r.deliver(ctx, c, payload, follow, depth+1)
		})
	}
	return g.Wait()
}

// deliver hands one arrival to the target of c.
func (r *run) deliver(ctx context.Context, c model.Connection, payload model.Payload, live bool, depth int) error {
	target, ok := r.scheduler.graph.Node(ctx, c.To.NodeID)
	if !ok {
		return fmt.Errorf("connection %s: %w", c, model.ErrNodeNotFound)
	}

	if target.Kind == model.KindMerge {
		j, ok := r.joins[target.ID]
		if !ok {
			return fmt.Errorf("merge '%s' is not reachable from the start node", target.ID)
		}
		combined, ready, fire, err := j.arrive(c.To.PortID, payload, live)
		if err != nil {
			return fmt.Errorf("merge '%s': %w", target.ID, err)
		}
		if !ready {
			return nil
		}
		if !fire {
			return r.skipFrom(ctx, target, depth)
		}
		return r.runFrom(ctx, target, combined, depth)
	}

	if !live {
		return r.skipFrom(ctx, target, depth)
	}
	return r.runFrom(ctx, target, payload, depth)
}
