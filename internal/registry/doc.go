// Package registry provides the central "glue" for the module system.
//
// The Registry maps each node kind to the compiled Go function that performs
// that kind's work. Modules populate it at startup through their Register
// method; the executor looks handlers up by kind while a run progresses.
//
// Before a run starts, Validate checks that every kind used by the workflow
// has a handler, so a missing module is reported as a configuration error
// instead of a node failure halfway through the run.
package registry
