// internal/fieldpath/path_test.go
package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedMap map[string]any

func TestLookup(t *testing.T) {
	payload := map[string]any{
		"initialValue": "hello world",
		"user": map[string]any{
			"age":  10.0,
			"tags": []any{"a", "b"},
		},
		"items": []any{
			map[string]any{"name": "first"},
			map[string]any{"name": "second"},
		},
		"named": namedMap{"inner": true},
		"empty": nil,
	}

	testCases := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "top level", path: "initialValue", want: "hello world", wantOK: true},
		{name: "nested", path: "user.age", want: 10.0, wantOK: true},
		{name: "index syntax", path: "items[1].name", want: "second", wantOK: true},
		{name: "numeric segment", path: "items.0.name", want: "first", wantOK: true},
		{name: "nested index", path: "user.tags[1]", want: "b", wantOK: true},
		{name: "named map type", path: "named.inner", want: true, wantOK: true},
		{name: "explicit null", path: "empty", want: nil, wantOK: true},
		{name: "missing key", path: "user.name", wantOK: false},
		{name: "missing intermediate", path: "account.id", wantOK: false},
		{name: "through a scalar", path: "initialValue.length", wantOK: false},
		{name: "index out of range", path: "items[5]", wantOK: false},
		{name: "index on a map", path: "user[0]", wantOK: false},
		{name: "through null", path: "empty.x", wantOK: false},
		{name: "unparsable path", path: "a..b", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Lookup(payload, tc.path)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPath_Equal(t *testing.T) {
	p1, _ := Parse("a.b[0]")
	p2, _ := Parse("a.b[0]")
	p3, _ := Parse("a.b[1]")

	assert.True(t, p1.Equal(p2))
	assert.False(t, p1.Equal(p3))
	assert.False(t, p1.Equal(nil))
	assert.True(t, (*Path)(nil).Equal(nil))
}
