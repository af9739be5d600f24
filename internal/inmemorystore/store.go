// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// Unlike inmemorytopology which uses one RWMutex, this store keeps one entry
// per node in a sync.Map and every entry carries its own mutex:
//   - **Write-Heavy Workload:** the executor constantly updates statuses and outputs
//   - **Independent Keys:** writes to different nodes never contend
//   - **No Torn Writes:** status and output of one node change together under its lock
//
// Observers are invoked after the entry lock is released.
package inmemorystore

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
)

type entry struct {
	mu     sync.Mutex
	record nodestore.Record
}

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	entries sync.Map // Key: node ID string, Value: *entry

	obsMu     sync.RWMutex
	observers []nodestore.Observer

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for Record.UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a new, empty in-memory node state store.
func New(opts ...Option) nodestore.Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) entry(id string) *entry {
	if e, ok := s.entries.Load(id); ok {
		return e.(*entry)
	}
	e, _ := s.entries.LoadOrStore(id, &entry{})
	return e.(*entry)
}

// SetStatus updates the status of a node.
func (s *Store) SetStatus(ctx context.Context, id string, status model.Status) error {
	e := s.entry(id)
	e.mu.Lock()
	e.record.Status = status
	e.record.UpdatedAt = s.now()
	rec := e.record
	e.mu.Unlock()

	s.notify(ctx, id, rec)
	return nil
}

// SetResult updates the status and the last output of a node together.
func (s *Store) SetResult(ctx context.Context, id string, status model.Status, output model.Payload) error {
	e := s.entry(id)
	e.mu.Lock()
	e.record.Status = status
	e.record.LastOutput = output
	e.record.UpdatedAt = s.now()
	rec := e.record
	e.mu.Unlock()

	s.notify(ctx, id, rec)
	return nil
}

// Get retrieves the record of a node. Unknown nodes are Idle.
func (s *Store) Get(ctx context.Context, id string) nodestore.Record {
	e, ok := s.entries.Load(id)
	if !ok {
		return nodestore.Record{Status: model.StatusIdle}
	}
	en := e.(*entry)
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.record
}

// Reset puts the given nodes back to Idle.
func (s *Store) Reset(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.SetResult(ctx, id, model.StatusIdle, nil); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns a copy of all records.
func (s *Store) Snapshot(ctx context.Context) map[string]nodestore.Record {
	out := make(map[string]nodestore.Record)
	s.entries.Range(func(key, value any) bool {
		e := value.(*entry)
		e.mu.Lock()
		out[key.(string)] = e.record
		e.mu.Unlock()
		return true
	})
	return out
}

// Subscribe registers an observer.
func (s *Store) Subscribe(obs nodestore.Observer) {
	if obs == nil {
		return
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, obs)
}

func (s *Store) notify(ctx context.Context, id string, rec nodestore.Record) {
	s.obsMu.RLock()
	observers := s.observers
	s.obsMu.RUnlock()

	for _, obs := range observers {
		obs(ctx, nodestore.Event{NodeID: id, Record: rec})
	}
}
