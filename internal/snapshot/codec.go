package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/nodeflow/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	methodOptions     = []string{"GET", "POST", "PUT", "DELETE"}
	comparisonOptions = []string{
		model.CompareEquals,
		model.CompareNotEquals,
		model.CompareContains,
		model.CompareGreaterThan,
		model.CompareLessThan,
	}
)

// Decode parses a JSON snapshot into a workflow. Every malformed node is
// reported, not only the first one.
func Decode(data []byte) (*model.Workflow, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workflow snapshot: %w", err)
	}
	return doc.Workflow()
}

// Workflow converts the document into a model workflow.
func (d *Document) Workflow() (*model.Workflow, error) {
	if err := validate.Struct(d); err != nil {
		return nil, fmt.Errorf("invalid workflow snapshot: %w", err)
	}

	var result *multierror.Error
	wf := model.NewWorkflow(d.Name)
	for _, sn := range d.Nodes {
		n, err := sn.node()
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		wf.Nodes = append(wf.Nodes, n)
	}
	for _, c := range d.Connections {
		wf.Connections = append(wf.Connections, model.Connection{
			From: model.Endpoint{NodeID: c.From.NodeID, PortID: c.From.PortID},
			To:   model.Endpoint{NodeID: c.To.NodeID, PortID: c.To.PortID},
		})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return wf, nil
}

func (sn Node) node() (*model.Node, error) {
	kind, err := model.ParseKind(sn.Kind)
	if err != nil {
		return nil, fmt.Errorf("node '%s': %w", sn.ID, err)
	}
	props, err := decodeProperties(kind, sn.Properties)
	if err != nil {
		return nil, fmt.Errorf("node '%s': %w", sn.ID, err)
	}

	n := model.NewNode(sn.ID, kind, props)
	if sn.Name != "" {
		n.Name = sn.Name
	}
	if len(sn.Inputs) > 0 {
		n.Inputs = ports(sn.Inputs, model.DirectionInput)
	}
	if len(sn.Outputs) > 0 {
		n.Outputs = ports(sn.Outputs, model.DirectionOutput)
	}
	n.Position = model.Position{X: sn.Position.X, Y: sn.Position.Y}
	return n, nil
}

func ports(in []Port, dir model.Direction) []model.Port {
	out := make([]model.Port, 0, len(in))
	for _, p := range in {
		out = append(out, model.Port{ID: p.ID, Direction: dir, Label: p.Label})
	}
	return out
}

func decodeProperties(kind model.Kind, bag []Property) (model.Properties, error) {
	var result *multierror.Error
	fail := func(p Property, err error) {
		result = multierror.Append(result, fmt.Errorf("property '%s': %w", p.Name, err))
	}

	switch kind {
	case model.KindStart, model.KindSimple:
		for _, p := range bag {
			fail(p, errNotForKind(kind))
		}
		return model.ZeroProperties(kind), wrapProps(result)

	case model.KindHTTP:
		var hp model.HTTPProperties
		for _, p := range bag {
			var err error
			switch p.Name {
			case PropURL:
				hp.URL, err = asString(p.Value)
			case PropMethod:
				hp.Method, err = asString(p.Value)
			case PropUseProxy:
				hp.UseProxy, err = asBool(p.Value)
			default:
				err = errNotForKind(kind)
			}
			if err != nil {
				fail(p, err)
			}
		}
		return hp, wrapProps(result)

	case model.KindBranch:
		var bp model.BranchProperties
		for _, p := range bag {
			var err error
			switch p.Name {
			case PropPath:
				bp.Path, err = asString(p.Value)
			case PropComparison:
				bp.Comparison, err = asString(p.Value)
			case PropValue:
				bp.Value, err = asString(p.Value)
			default:
				err = errNotForKind(kind)
			}
			if err != nil {
				fail(p, err)
			}
		}
		return bp, wrapProps(result)

	case model.KindMerge:
		var mp model.MergeProperties
		for _, p := range bag {
			var err error
			switch p.Name {
			case PropInputs:
				mp.Inputs, err = asInt(p.Value)
			default:
				err = errNotForKind(kind)
			}
			if err != nil {
				fail(p, err)
			}
		}
		return mp, wrapProps(result)
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, kind)
}

func wrapProps(result *multierror.Error) error {
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidProperties, err)
	}
	return nil
}

func errNotForKind(kind model.Kind) error {
	return fmt.Errorf("not a property of %s nodes", kind)
}

func asString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}

func asBool(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("expected a boolean, got %q", t)
		}
		return b, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", v)
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("expected a whole number, got %v", t)
		}
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("expected a whole number, got %q", t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

// Encode renders a workflow as an indented JSON snapshot.
func Encode(wf *model.Workflow) ([]byte, error) {
	doc := FromWorkflow(wf)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode workflow snapshot: %w", err)
	}
	return data, nil
}

// FromWorkflow converts a model workflow into its persisted form.
func FromWorkflow(wf *model.Workflow) *Document {
	doc := &Document{
		Name:        wf.Name,
		Nodes:       make([]Node, 0, len(wf.Nodes)),
		Connections: make([]Connection, 0, len(wf.Connections)),
	}
	for _, n := range wf.Nodes {
		doc.Nodes = append(doc.Nodes, Node{
			ID:         n.ID,
			Kind:       string(n.Kind),
			Name:       n.Name,
			Properties: encodeProperties(n.Properties),
			Inputs:     persistPorts(n.Inputs),
			Outputs:    persistPorts(n.Outputs),
			Position:   Position{X: n.Position.X, Y: n.Position.Y},
		})
	}
	for _, c := range wf.Connections {
		doc.Connections = append(doc.Connections, Connection{
			From: Endpoint{NodeID: c.From.NodeID, PortID: c.From.PortID},
			To:   Endpoint{NodeID: c.To.NodeID, PortID: c.To.PortID},
		})
	}
	return doc
}

func persistPorts(in []model.Port) []Port {
	if len(in) == 0 {
		return nil
	}
	out := make([]Port, 0, len(in))
	for _, p := range in {
		out = append(out, Port{ID: p.ID, Label: p.Label})
	}
	return out
}

func encodeProperties(props model.Properties) []Property {
	switch p := props.(type) {
	case model.HTTPProperties:
		return []Property{
			{Name: PropURL, Type: TypeText, Value: p.URL},
			{Name: PropMethod, Type: TypeSelect, Value: p.EffectiveMethod(), Options: methodOptions},
			{Name: PropUseProxy, Type: TypeCheckbox, Value: p.UseProxy},
		}
	case model.BranchProperties:
		return []Property{
			{Name: PropPath, Type: TypeText, Value: p.Path},
			{Name: PropComparison, Type: TypeSelect, Value: p.Comparison, Options: comparisonOptions},
			{Name: PropValue, Type: TypeText, Value: p.Value},
		}
	case model.MergeProperties:
		if p.Inputs == 0 {
			return []Property{}
		}
		return []Property{{Name: PropInputs, Type: TypeText, Value: p.Inputs}}
	}
	return []Property{}
}
