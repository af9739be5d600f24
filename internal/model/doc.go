// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the format-agnostic, in-memory representation of a
// nodeflow workflow: nodes, their ports, the connections between them and the
// payloads that travel along those connections during a run.
//
// # Core Concepts
//
//   - Workflow: The root container. It aggregates every node and connection of
//     a single graph, whether it was loaded from HCL files or from a JSON
//     snapshot produced by the editor.
//
//   - Node: A unit of work of one Kind (start, simple, http, branch, merge). A
//     node owns an ordered list of input and output ports and a strongly typed
//     Properties value whose concrete type is determined by the node's kind.
//
//   - Connection: A directed edge from one node's output port to another
//     node's input port, addressed by Endpoint values ("node.port").
//
//   - Payload: The structured value threaded through a run. Every node receives
//     its predecessor's payload and produces a new one for its successors.
//
// Why a separate model package?
//
// The loaders (HCL, JSON snapshot) and the engine (topology, scheduler,
// executor) never talk to each other directly. They meet here. Keeping the model
// free of execution state means the same Workflow value can be validated,
// stored, re-encoded and executed many times.
//
// Mutable execution state (status, last output) deliberately does not live on
// Node. It is owned by the node store for the duration of a run, which lets the
// topology stay a read-only snapshot that many goroutines can share.
package model
