package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nodeflow/internal/config"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/fsutil"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// Extension is the file extension read by the HCL loader.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL workflow loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extension implements config.Loader.
func (l *Loader) Extension() string { return Extension }

// fileRoot is a struct used to decode all possible top-level blocks from any file.
// Anything else at the top level is rejected by gohcl as unsupported.
type fileRoot struct {
	Workflow    *workflowBlock     `hcl:"workflow,block"`
	Nodes       []*nodeBlock       `hcl:"node,block"`
	Connections []*connectionBlock `hcl:"connection,block"`
}

// Load parses every .hcl file under paths and merges their blocks into a
// single workflow. The result is not validated; that happens when a session
// is built from it.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", Extension, strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	wf := model.NewWorkflow("")
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if root.Workflow != nil {
			if wf.Name != "" && wf.Name != root.Workflow.Name {
				return nil, fmt.Errorf("%s: workflow '%s' conflicts with workflow '%s' declared earlier", file, root.Workflow.Name, wf.Name)
			}
			wf.Name = root.Workflow.Name
		}
		for _, nb := range root.Nodes {
			n, err := nb.translate()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			wf.Nodes = append(wf.Nodes, n)
		}
		for _, cb := range root.Connections {
			if err := wf.Connect(cb.From, cb.To); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
	}

	if wf.Name == "" {
		wf.Name = defaultName(paths[0])
	}

	logger.Debug("HCL loading complete.", "workflow", wf.Name, "nodes", len(wf.Nodes), "connections", len(wf.Connections))
	return wf, nil
}

func defaultName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
