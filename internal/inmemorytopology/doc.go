// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. It is designed for graphs that fit
// comfortably in memory and do not require persistent storage.
package inmemorytopology
