package condition

import (
	"fmt"
	"math"
	"strings"

	"github.com/specialistvlad/nodeflow/internal/fieldpath"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// Extract navigates payload along the dotted path and returns the value it
// finds, or Undefined.
func Extract(payload model.Payload, path string) any {
	v, ok := fieldpath.Lookup(map[string]any(payload), path)
	if !ok {
		return Undefined
	}
	return v
}

// Evaluate applies the comparison rule of props to payload.
func Evaluate(props model.BranchProperties, payload model.Payload) (bool, error) {
	actual := Extract(payload, props.Path)

	switch props.Comparison {
	case model.CompareEquals:
		return Stringify(actual) == props.Value, nil
	case model.CompareNotEquals:
		return Stringify(actual) != props.Value, nil
	case model.CompareContains:
		return strings.Contains(Stringify(actual), props.Value), nil
	case model.CompareGreaterThan:
		a, b := ToNumber(actual), ToNumber(props.Value)
		if math.IsNaN(a) || math.IsNaN(b) {
			return false, nil
		}
		return a > b, nil
	case model.CompareLessThan:
		a, b := ToNumber(actual), ToNumber(props.Value)
		if math.IsNaN(a) || math.IsNaN(b) {
			return false, nil
		}
		return a < b, nil
	}
	return false, fmt.Errorf("%w: unknown comparison %q", model.ErrInvalidProperties, props.Comparison)
}

// SelectPort evaluates a branch node against payload and returns the id of
// the output port that fires: the one labelled "true" when the comparison
// holds, the one labelled "false" otherwise.
func SelectPort(n *model.Node, payload model.Payload) (string, error) {
	props, ok := n.Properties.(model.BranchProperties)
	if !ok {
		return "", fmt.Errorf("node '%s': %w: expected branch properties, got %T", n.ID, model.ErrInvalidProperties, n.Properties)
	}

	holds, err := Evaluate(props, payload)
	if err != nil {
		return "", fmt.Errorf("node '%s': %w", n.ID, err)
	}

	label := model.PortFalse
	if holds {
		label = model.PortTrue
	}
	port, ok := n.OutputPortByLabel(label)
	if !ok {
		return "", fmt.Errorf("node '%s': %w: no '%s' output", n.ID, model.ErrPortNotFound, label)
	}
	return port.ID, nil
}
