// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Payload is the structured value passed between nodes. Values are whatever a
// JSON decoder produces: maps, slices, strings, float64, bool and nil.
type Payload map[string]any

// Clone returns a deep copy of p. Nested maps and slices are copied so that
// concurrently running successors never share mutable state.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Payload:
		return t.Clone()
	case map[string]any:
		return map[string]any(Payload(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// ErrorPayload is the lastOutput recorded for a failed node.
func ErrorPayload(err error) Payload {
	return Payload{"error": err.Error()}
}
