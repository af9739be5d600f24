// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of them so callers can
// branch on errors.Is without knowing every individual sentinel.
var (
	// ErrConfiguration means the workflow cannot run at all. No node status
	// changes when it is returned.
	ErrConfiguration = errors.New("configuration error")
	// ErrStructuralHazard means the graph shape would make the run hang or
	// recurse without bound.
	ErrStructuralHazard = errors.New("structural hazard")
)

var (
	ErrNoStartNode        = fmt.Errorf("%w: no start node found", ErrConfiguration)
	ErrMultipleStartNodes = fmt.Errorf("%w: more than one start node found", ErrConfiguration)
	ErrUnknownKind        = fmt.Errorf("%w: unknown node kind", ErrConfiguration)
	ErrInvalidProperties  = fmt.Errorf("%w: invalid node properties", ErrConfiguration)
	ErrNoHandler          = fmt.Errorf("%w: no handler registered for node kind", ErrConfiguration)

	ErrCycleDetected = fmt.Errorf("%w: cycle detected", ErrStructuralHazard)
	ErrRevisit       = fmt.Errorf("%w: node reached more than once", ErrStructuralHazard)

	ErrNodeNotFound      = errors.New("node not found")
	ErrPortNotFound      = errors.New("port not found")
	ErrFanInViolation    = errors.New("input port already has an incoming connection")
	ErrInvalidConnection = errors.New("invalid connection")
)

// ExecutionError is a per-node failure. It is recorded on the node and stops
// that node's branch, but never fails the run as a whole.
type ExecutionError struct {
	NodeID string
	Kind   Kind
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("node '%s' (%s) failed: %v", e.NodeID, e.Kind, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
