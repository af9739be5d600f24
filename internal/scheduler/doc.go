// Package scheduler walks a workflow graph from its start node and drives the
// executor over every node a run reaches.
//
// # How It Works
//
// A run is a tree of concurrent tasks rooted at the start node:
//  1. Pre-flight: locate the unique start node, refuse cycles reachable from
//     it, and check that a handler exists for every reachable kind. Nothing
//     is written to the node store when pre-flight fails.
//  2. Every node of the graph is reset to Idle.
//  3. runFrom executes a node, then launches one goroutine per followed
//     outgoing connection and waits for all of them (join per recursion
//     level). Branch nodes follow only the connections leaving the port
//     their condition selected.
//
// # Skip Tokens and Merge Nodes
//
// Connections that are not followed (the branch port not taken, every
// connection of a failed node) carry a skip token instead of a payload. A
// node whose only input is skipped does not run and forwards skips on all of
// its outputs.
//
// Merge nodes are barrier joins. A merge waits until every incoming
// connection whose source is reachable from the start node has delivered a
// payload or a skip, then fires exactly once with the delivered payloads
// combined in input port order (earlier ports win on key conflicts). When
// every arrival is a skip, the merge does not run and forwards skips.
//
// # Failure Model
//
// A node failure is recorded on the node and stops only that node's branch.
// It never fails the run. Structural hazards found during traversal (a node
// reached twice, the depth bound exceeded) stop the offending branch and are
// returned once every task has settled. Context cancellation stops new
// descents and aborts step delays; the run then returns ctx.Err().
package scheduler
