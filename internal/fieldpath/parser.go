// internal/fieldpath/parser.go
package fieldpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex is used to parse a single segment of a path, e.g., `name` or `name[1][2]`.
var segmentRegex = regexp.MustCompile(`^([^\[\]]+)((?:\[\d+\])*)$`)

// indexRegex extracts the individual indices from the suffix matched above.
var indexRegex = regexp.MustCompile(`\[(\d+)\]`)

// Parse creates a new Path by parsing its dotted string representation.
func Parse(raw string) (*Path, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	p := &Path{}
	for _, segmentStr := range strings.Split(raw, ".") {
		if segmentStr == "" {
			return nil, fmt.Errorf("path contains empty segment")
		}

		matches := segmentRegex.FindStringSubmatch(segmentStr)
		if matches == nil {
			return nil, fmt.Errorf("invalid path segment format: %q", segmentStr)
		}

		segment := NewSegment(matches[1])
		for _, m := range indexRegex.FindAllStringSubmatch(matches[2], -1) {
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				// Unreachable due to regex `\d+`
				return nil, fmt.Errorf("internal error parsing index: %w", err)
			}
			segment.Indices = append(segment.Indices, idx)
		}
		p.Segments = append(p.Segments, segment)
	}

	return p, nil
}
