// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// Status is the execution status of a node within a run.
type Status int32

const (
	// StatusIdle means the node has not run in the current run.
	StatusIdle Status = iota
	// StatusRunning means the node's handler is executing.
	StatusRunning
	// StatusSuccess means the node produced an output.
	StatusSuccess
	// StatusFailed means the node's handler returned an error.
	StatusFailed
)

var statusNames = map[Status]string{
	StatusIdle:    "idle",
	StatusRunning: "running",
	StatusSuccess: "success",
	StatusFailed:  "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for st, name := range statusNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(text))
}

// Terminal reports whether the status ends a node's execution.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}
