package feed

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// Path is where the relay is mounted.
const Path = "/socket.io/"

// Server is the socket.io status relay.
type Server struct {
	io   *socket.Server
	opts *socket.ServerOptions

	mu     sync.RWMutex
	latest map[string]Message
}

// NewServer creates a relay. Call Handler to mount it.
func NewServer(ctx context.Context) *Server {
	logger := ctxlog.FromContext(ctx).With("component", "feed")

	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{Origin: "*", Credentials: true})

	s := &Server{
		io:     socket.NewServer(nil, nil),
		opts:   opts,
		latest: make(map[string]Message),
	}

	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		logger.Debug("Feed client connected.", "sid", client.Id())

		if err := client.Emit(EventSnapshot, s.snapshotWire()); err != nil {
			logger.Warn("Failed to send snapshot to feed client.", "sid", client.Id(), "error", err)
		}

		client.On(EventStatus, func(args ...any) {
			if len(args) == 0 {
				return
			}
			msg, err := decodeMessage(args[0])
			if err != nil {
				logger.Warn("Dropping malformed status from feed client.", "sid", client.Id(), "error", err)
				return
			}
			s.Publish(ctx, msg)
		})

		client.On("disconnect", func(reason ...any) {
			logger.Debug("Feed client disconnected.", "sid", client.Id(), "reason", reason)
		})
	})

	return s
}

// Handler returns the HTTP handler serving socket.io requests.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(s.opts)
}

// Publish records msg as the latest state of its node and broadcasts it.
func (s *Server) Publish(ctx context.Context, msg Message) {
	s.mu.Lock()
	prev, seen := s.latest[msg.NodeID]
	if !seen || !msg.UpdatedAt.Before(prev.UpdatedAt) {
		s.latest[msg.NodeID] = msg
	}
	s.mu.Unlock()

	wire, err := msg.wire()
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to encode status message.", "node", msg.NodeID, "error", err)
		return
	}
	if err := s.io.Emit(EventStatus, wire); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to broadcast status message.", "node", msg.NodeID, "error", err)
	}
}

// Observer returns a store observer that publishes every write.
func (s *Server) Observer() nodestore.Observer {
	return func(ctx context.Context, ev nodestore.Event) {
		s.Publish(ctx, MessageFromEvent(ctx, ev))
	}
}

// Latest returns the most recent message of every node, sorted by node id.
func (s *Server) Latest() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, 0, len(s.latest))
	for _, m := range s.latest {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// Close disconnects every client.
func (s *Server) Close() {
	s.io.DisconnectSockets(true)
}

func (s *Server) snapshotWire() []any {
	latest := s.Latest()
	out := make([]any, 0, len(latest))
	for _, m := range latest {
		if w, err := m.wire(); err == nil {
			out = append(out, w)
		}
	}
	return out
}
