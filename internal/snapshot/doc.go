// Package snapshot reads and writes the JSON form of a workflow graph.
//
// The JSON form is the one an editor persists: node properties are a list of
// named, typed fields rather than a struct per kind. Decode turns that list
// into the matching model.Properties value and Encode does the reverse.
package snapshot
