// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the per-kind node properties.
//
// Each kind of node carries its own strongly typed property struct instead of a
// free-form list of name/value pairs. Properties is a closed sum type: the only
// implementations are the five structs below, one per Kind. Loaders translate
// whatever representation they read (HCL attributes, the editor's property bag)
// into one of these, and validation happens once, through struct tags.
package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Properties is the configuration of a node. The concrete type is fixed by
// the node's kind.
type Properties interface {
	Kind() Kind
	isProperties()
}

// Comparison operators supported by branch nodes.
const (
	CompareEquals      = "equals"
	CompareNotEquals   = "notEquals"
	CompareContains    = "contains"
	CompareGreaterThan = "greaterThan"
	CompareLessThan    = "lessThan"
)

// StartProperties configures a start node. Start nodes have no settings; the
// payload they emit is the run's seed.
type StartProperties struct{}

// SimpleProperties configures a simple pass-through node.
type SimpleProperties struct{}

// HTTPProperties configures an http node.
type HTTPProperties struct {
	URL      string `validate:"required,url"`
	Method   string `validate:"omitempty,oneof=GET POST PUT DELETE"`
	UseProxy bool
}

// BranchProperties configures a branch node.
type BranchProperties struct {
	Path       string `validate:"required"`
	Comparison string `validate:"required,oneof=equals notEquals contains greaterThan lessThan"`
	Value      string
}

// MergeProperties configures a merge node. Inputs is the number of input
// ports; zero means DefaultMergeInputs.
type MergeProperties struct {
	Inputs int `validate:"omitempty,min=2"`
}

func (StartProperties) Kind() Kind  { return KindStart }
func (SimpleProperties) Kind() Kind { return KindSimple }
func (HTTPProperties) Kind() Kind   { return KindHTTP }
func (BranchProperties) Kind() Kind { return KindBranch }
func (MergeProperties) Kind() Kind  { return KindMerge }

func (StartProperties) isProperties()  {}
func (SimpleProperties) isProperties() {}
func (HTTPProperties) isProperties()   {}
func (BranchProperties) isProperties() {}
func (MergeProperties) isProperties()  {}

// EffectiveMethod returns the upper-cased method, defaulting to GET.
func (p HTTPProperties) EffectiveMethod() string {
	if p.Method == "" {
		return "GET"
	}
	return strings.ToUpper(p.Method)
}

// ZeroProperties returns the empty properties value for a kind, or nil for an
// unknown kind.
func ZeroProperties(kind Kind) Properties {
	switch kind {
	case KindStart:
		return StartProperties{}
	case KindSimple:
		return SimpleProperties{}
	case KindHTTP:
		return HTTPProperties{}
	case KindBranch:
		return BranchProperties{}
	case KindMerge:
		return MergeProperties{}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProperties checks p against its struct tags.
func ValidateProperties(p Properties) error {
	if p == nil {
		return fmt.Errorf("%w: nil properties", ErrInvalidProperties)
	}
	if hp, ok := p.(HTTPProperties); ok {
		// Methods are matched case-insensitively.
		hp.Method = strings.ToUpper(hp.Method)
		p = hp
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s properties: %w", ErrInvalidProperties, p.Kind(), err)
	}
	return nil
}
