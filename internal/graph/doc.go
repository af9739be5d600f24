// Package graph provides a unified facade for managing the execution graph,
// combining static topology (graph shape) and dynamic state (execution status).
//
// # Why Graph Package Exists
//
// The graph package serves as a facade over the dual-store architecture
// (topology + node state). Instead of requiring the scheduler and executor to
// coordinate between two separate stores, the Graph interface provides a
// single, cohesive API.
//
// # Architecture: The Facade Pattern
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (Unified API for executor/         │
//	│   scheduler to query & update)      │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │ Node State │
//	  │   Store    │  │   Store    │
//	  │ (Structure)│  │  (Status)  │
//	  └────────────┘  └────────────┘
//
// **Topology Store** (topologystore.Store):
//   - Manages the read-only graph shape (nodes, ports, connections)
//   - Queried by: Node(), StartNode(), Outgoing(), Incoming(), ResolveEndpoint()
//
// **Node Store** (nodestore.Store):
//   - Manages mutable execution state (status, last output)
//   - Updated by: MarkRunning(), MarkSucceeded(), MarkFailed(), ResetAll()
//
// The facade also owns the structural checks that need a whole-graph view:
// Reachable() and DetectCycles() walk the topology from the start node so the
// scheduler can refuse a cyclic graph before any status changes.
//
// # Thread-Safety
//
// All Graph methods are thread-safe. Thread-safety is guaranteed by delegating
// to the underlying thread-safe stores.
package graph
