package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

type workflowBlock struct {
	Name string `hcl:"name,label"`
}

type positionBlock struct {
	X float64 `hcl:"x,optional"`
	Y float64 `hcl:"y,optional"`
}

type connectionBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// nodeBlock holds the union of all node attributes. Which of them are
// allowed depends on the kind label.
type nodeBlock struct {
	Kind       string         `hcl:"kind,label"`
	ID         string         `hcl:"id,label"`
	Name       *string        `hcl:"name,optional"`
	URL        *string        `hcl:"url,optional"`
	Method     *string        `hcl:"method,optional"`
	UseProxy   *bool          `hcl:"use_proxy,optional"`
	Path       *string        `hcl:"path,optional"`
	Comparison *string        `hcl:"comparison,optional"`
	Value      hcl.Expression `hcl:"value,optional"`
	Inputs     *int           `hcl:"inputs,optional"`
	Position   *positionBlock `hcl:"position,block"`
}

// translate turns a decoded node block into a model node.
func (b *nodeBlock) translate() (*model.Node, error) {
	kind, err := model.ParseKind(b.Kind)
	if err != nil {
		return nil, fmt.Errorf("node '%s': %w", b.ID, err)
	}

	value, hasValue, err := exprString(b.Value)
	if err != nil {
		return nil, fmt.Errorf("node '%s': attribute 'value': %w", b.ID, err)
	}

	set := map[string]bool{
		"url":        b.URL != nil,
		"method":     b.Method != nil,
		"use_proxy":  b.UseProxy != nil,
		"path":       b.Path != nil,
		"comparison": b.Comparison != nil,
		"value":      hasValue,
		"inputs":     b.Inputs != nil,
	}
	allowed := allowedAttributes[kind]
	for _, name := range attributeOrder {
		if set[name] && !allowed[name] {
			return nil, fmt.Errorf("node '%s': %w: attribute '%s' is not valid for %s nodes", b.ID, model.ErrInvalidProperties, name, kind)
		}
	}

	var props model.Properties
	switch kind {
	case model.KindStart:
		props = model.StartProperties{}
	case model.KindSimple:
		props = model.SimpleProperties{}
	case model.KindHTTP:
		props = model.HTTPProperties{URL: deref(b.URL), Method: deref(b.Method), UseProxy: b.UseProxy != nil && *b.UseProxy}
	case model.KindBranch:
		props = model.BranchProperties{Path: deref(b.Path), Comparison: deref(b.Comparison), Value: value}
	case model.KindMerge:
		mp := model.MergeProperties{}
		if b.Inputs != nil {
			mp.Inputs = *b.Inputs
		}
		props = mp
	}

	n := model.NewNode(b.ID, kind, props)
	if b.Name != nil {
		n.Name = *b.Name
	}
	if b.Position != nil {
		n.Position = model.Position{X: b.Position.X, Y: b.Position.Y}
	}
	return n, nil
}

var attributeOrder = []string{"url", "method", "use_proxy", "path", "comparison", "value", "inputs"}

var allowedAttributes = map[model.Kind]map[string]bool{
	model.KindStart:  {},
	model.KindSimple: {},
	model.KindHTTP:   {"url": true, "method": true, "use_proxy": true},
	model.KindBranch: {"path": true, "comparison": true, "value": true},
	model.KindMerge:  {"inputs": true},
}

// exprString evaluates a static expression and converts the result to a
// string. Absent attributes decode to a null expression and report false.
func exprString(expr hcl.Expression) (string, bool, error) {
	if expr == nil {
		return "", false, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", false, diags
	}
	if v.IsNull() {
		return "", false, nil
	}
	if !v.IsWhollyKnown() {
		return "", false, fmt.Errorf("value must be known")
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", false, fmt.Errorf("value must be a string, number or bool: %w", err)
	}
	return s.AsString(), true, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
