package condition

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

type undefined struct{}

// Undefined is the value extracted from a payload when the path does not
// resolve. It is distinct from an explicit null.
var Undefined any = undefined{}

// Stringify returns the string form of v used by equality comparisons.
func Stringify(v any) string {
	switch t := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			// Nested null and undefined render empty inside a list.
			if e == nil {
				continue
			}
			if _, ok := e.(undefined); ok {
				continue
			}
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ",")
	}

	if f, ok := asFloat(v); ok {
		return formatNumber(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return Stringify(items)
	}
	return "[object Object]"
}

// ToNumber coerces v to a float64. Values that have no numeric reading
// yield NaN.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case undefined:
		return math.NaN()
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return parseNumber(t)
	}
	if f, ok := asFloat(v); ok {
		return f
	}
	return math.NaN()
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case uint32:
		return float64(t), true
	case *big.Float:
		f, _ := t.Float64()
		return f, true
	case cty.Value:
		if t.IsKnown() && !t.IsNull() && t.Type() == cty.Number {
			f, _ := t.AsBigFloat().Float64()
			return f, true
		}
	}
	return 0, false
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s, err := convert.Convert(cty.NumberFloatVal(f), cty.String)
	if err != nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s.AsString()
}

func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// big.ParseFloat accepts "inf" and "Inf", which are not numbers here.
	if strings.ContainsAny(s, "iI") {
		return math.NaN()
	}
	n, err := convert.Convert(cty.StringVal(s), cty.Number)
	if err != nil {
		return math.NaN()
	}
	f, _ := n.AsBigFloat().Float64()
	return f
}
