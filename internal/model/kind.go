// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// Kind identifies the behaviour of a node. The set is closed.
type Kind string

const (
	KindStart  Kind = "start"
	KindSimple Kind = "simple"
	KindHTTP   Kind = "http"
	KindBranch Kind = "branch"
	KindMerge  Kind = "merge"
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{KindStart, KindSimple, KindHTTP, KindBranch, KindMerge}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStart, KindSimple, KindHTTP, KindBranch, KindMerge:
		return true
	}
	return false
}

// ParseKind converts a raw string into a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return k, nil
}

// Well-known port ids.
const (
	PortIn    = "in"
	PortOut   = "out"
	PortTrue  = "true"
	PortFalse = "false"
)

// DefaultMergeInputs is the number of input ports a merge node gets when the
// workflow does not say otherwise.
const DefaultMergeInputs = 2

// DefaultPorts returns the port layout of a node of the given kind. The
// mergeInputs argument is only used for merge nodes; values below
// DefaultMergeInputs are raised to it.
func DefaultPorts(kind Kind, mergeInputs int) (inputs, outputs []Port) {
	switch kind {
	case KindStart:
		return nil, []Port{{ID: PortOut, Direction: DirectionOutput}}
	case KindSimple, KindHTTP:
		return []Port{{ID: PortIn, Direction: DirectionInput}},
			[]Port{{ID: PortOut, Direction: DirectionOutput}}
	case KindBranch:
		return []Port{{ID: PortIn, Direction: DirectionInput}},
			[]Port{
				{ID: PortTrue, Direction: DirectionOutput, Label: "true"},
				{ID: PortFalse, Direction: DirectionOutput, Label: "false"},
			}
	case KindMerge:
		if mergeInputs < DefaultMergeInputs {
			mergeInputs = DefaultMergeInputs
		}
		inputs = make([]Port, 0, mergeInputs)
		for i := 1; i <= mergeInputs; i++ {
			inputs = append(inputs, Port{ID: fmt.Sprintf("in%d", i), Direction: DirectionInput})
		}
		return inputs, []Port{{ID: PortOut, Direction: DirectionOutput}}
	}
	return nil, nil
}
