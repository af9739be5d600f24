// internal/fieldpath/parser_test.go
package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedPath *Path
	}{
		{
			name: "single key",
			raw:  "initialValue",
			expectedPath: &Path{
				Segments: []Segment{NewSegment("initialValue")},
			},
		},
		{
			name: "nested keys",
			raw:  "user.age",
			expectedPath: &Path{
				Segments: []Segment{NewSegment("user"), NewSegment("age")},
			},
		},
		{
			name: "key with index",
			raw:  "items[0].name",
			expectedPath: &Path{
				Segments: []Segment{NewSegmentWithIndex("items", 0), NewSegment("name")},
			},
		},
		{
			name: "key with nested indices",
			raw:  "matrix[1][2]",
			expectedPath: &Path{
				Segments: []Segment{NewSegmentWithIndex("matrix", 1, 2)},
			},
		},
		{
			name: "keys with dashes and spaces",
			raw:  "content-type.my key",
			expectedPath: &Path{
				Segments: []Segment{NewSegment("content-type"), NewSegment("my key")},
			},
		},
		{
			name:      "error - empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - empty segment",
			raw:       "a..b",
			expectErr: true,
		},
		{
			name:      "error - non numeric index",
			raw:       "a[x]",
			expectErr: true,
		},
		{
			name:      "error - dangling bracket",
			raw:       "a[1",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, p)
			assert.True(t, tc.expectedPath.Equal(p), "parsed path does not match expected path")
			assert.Equal(t, tc.raw, p.String())
		})
	}
}
