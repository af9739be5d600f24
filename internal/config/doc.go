// Package config defines the Loader interface through which workflow
// definitions are read from files.
//
// The `model.Workflow` is the single source of truth for the session and the
// scheduler. Concrete implementations of the interface, for HCL and for the
// JSON graph snapshot, are provided in separate packages.
package config
