package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/nodeflow/internal/config"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/fsutil"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// Extension is the file extension read by the snapshot loader.
const Extension = ".json"

// Loader reads JSON snapshots from disk.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new snapshot loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extension implements config.Loader.
func (l *Loader) Extension() string { return Extension }

// Load decodes every snapshot file under paths and merges them into one
// workflow.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Workflow, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", Extension, strings.Join(paths, ", "))
	}
	logger.Debug("Discovered snapshot files.", "count", len(files))

	wf := model.NewWorkflow("")
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", file, err)
		}
		part, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if part.Name != "" {
			if wf.Name != "" && wf.Name != part.Name {
				return nil, fmt.Errorf("%s: workflow '%s' conflicts with workflow '%s' declared earlier", file, part.Name, wf.Name)
			}
			wf.Name = part.Name
		}
		wf.Nodes = append(wf.Nodes, part.Nodes...)
		wf.Connections = append(wf.Connections, part.Connections...)
	}

	if wf.Name == "" {
		base := filepath.Base(filepath.Clean(paths[0]))
		wf.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	logger.Debug("Snapshot loading complete.", "workflow", wf.Name, "nodes", len(wf.Nodes), "connections", len(wf.Connections))
	return wf, nil
}
