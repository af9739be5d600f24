// Package feed streams node status changes over socket.io.
//
// Server is a relay: it broadcasts every status it is given to all connected
// clients and remembers the latest status of each node so that a client
// joining mid-run first receives a "snapshot" event. Publisher is the other
// end, a client that forwards the local store's events to a remote relay.
//
// Both plug into the node store as observers.
package feed
