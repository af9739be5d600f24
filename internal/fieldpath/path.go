// internal/fieldpath/path.go
package fieldpath

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// String serializes the Path into its canonical dotted representation.
func (p *Path) String() string {
	if p == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range p.Segments {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		for _, idx := range segment.Indices {
			sb.WriteString(fmt.Sprintf("[%d]", idx))
		}
	}

	return sb.String()
}

// Equal checks for deep equality between two Path pointers.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return reflect.DeepEqual(p.Segments, other.Segments)
}

// Lookup walks value along the path. It returns ok == false when any key is
// missing, an index is out of range, or an intermediate value is neither a
// map nor a list.
func (p *Path) Lookup(value any) (any, bool) {
	if p == nil {
		return nil, false
	}

	current := value
	for _, segment := range p.Segments {
		next, ok := step(current, segment.Name)
		if !ok {
			return nil, false
		}
		for _, idx := range segment.Indices {
			next, ok = index(next, idx)
			if !ok {
				return nil, false
			}
		}
		current = next
	}
	return current, true
}

// Lookup parses raw and walks value along it. An unparsable path is treated
// the same as a path that does not resolve.
func Lookup(value any, raw string) (any, bool) {
	p, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return p.Lookup(value)
}

func step(value any, key string) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		out, ok := v[key]
		return out, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		return index(v, i)
	}

	// Named map types such as model.Payload.
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !out.IsValid() {
			return nil, false
		}
		return out.Interface(), true
	}
	return nil, false
}

func index(value any, i int) (any, bool) {
	list, ok := value.([]any)
	if !ok || i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}
