package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/nodeflow/internal/fsutil"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// Loader is the interface for a format-specific workflow loader.
type Loader interface {
	// Load reads every matching file under the given paths and returns the
	// workflow they describe together.
	Load(ctx context.Context, paths ...string) (*model.Workflow, error)

	// Extension is the file extension the loader reads, such as ".hcl".
	Extension() string
}

// Select returns the loader for path. Files are matched by extension. A
// directory goes to the first loader that finds files of its extension in it.
func Select(path string, loaders ...Loader) (Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	if info.IsDir() {
		for _, l := range loaders {
			files, err := fsutil.FindFilesByExtension(path, l.Extension())
			if err != nil {
				return nil, err
			}
			if len(files) > 0 {
				return l, nil
			}
		}
		return nil, fmt.Errorf("no workflow files found in %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range loaders {
		if l.Extension() == ext {
			return l, nil
		}
	}
	return nil, fmt.Errorf("unsupported workflow file extension %q", ext)
}
