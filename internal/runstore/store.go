// Package runstore persists run reports and the workflows they ran.
//
// Reports are stored under "run/<id>" as msgpack and workflows under
// "workflow/<name>" in their JSON snapshot form, in a badger database.
package runstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
	"github.com/specialistvlad/nodeflow/internal/snapshot"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	runPrefix      = "run/"
	workflowPrefix = "workflow/"
)

// ErrNotFound is returned when no entry exists under the requested key.
var ErrNotFound = errors.New("not found")

// Store is a badger-backed run store.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store at path. An empty path keeps everything
// in memory.
func Open(ctx context.Context, path string) (*Store, error) {
	logger := ctxlog.FromContext(ctx)

	opts := badger.DefaultOptions(path).WithLogger(&badgerLogger{logger: logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	logger.Debug("Run store opened.", "path", path, "in_memory", path == "")
	return &Store{db: db}, nil
}

// Save stores a run report, replacing any report with the same id.
func (s *Store) Save(ctx context.Context, r *scheduler.Report) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", r.RunID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(r.RunID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.RunID, err)
	}
	ctxlog.FromContext(ctx).Debug("Run report saved.", "run", r.RunID, "bytes", len(data))
	return nil
}

// Get returns the report of the given run.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*scheduler.Report, error) {
	data, err := s.get(runKey(id))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	var r scheduler.Report
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &r, nil
}

// List returns every stored report, oldest first.
func (s *Store) List(ctx context.Context) ([]*scheduler.Report, error) {
	var reports []*scheduler.Report
	prefix := []byte(runPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var r scheduler.Report
			if err := msgpack.Unmarshal(data, &r); err != nil {
				return fmt.Errorf("failed to decode %s: %w", item.Key(), err)
			}
			reports = append(reports, &r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})
	return reports, nil
}

// SaveWorkflow stores the snapshot form of wf under its name.
func (s *Store) SaveWorkflow(ctx context.Context, wf *model.Workflow) error {
	data, err := snapshot.Encode(wf)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(workflowPrefix+wf.Name), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save workflow '%s': %w", wf.Name, err)
	}
	return nil
}

// Workflow returns the stored workflow with the given name.
func (s *Store) Workflow(ctx context.Context, name string) (*model.Workflow, error) {
	data, err := s.get([]byte(workflowPrefix + name))
	if err != nil {
		return nil, fmt.Errorf("workflow '%s': %w", name, err)
	}
	return snapshot.Decode(data)
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key []byte) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return data, err
}

func runKey(id uuid.UUID) []byte {
	return []byte(runPrefix + id.String())
}

// badgerLogger routes badger's own logging into slog. Badger is chatty at
// info level, so everything below warnings is logged at debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
