package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	sioclient "github.com/zishang520/socket.io-client-go/socket"
)

// DefaultDialTimeout bounds how long Dial waits for the relay.
const DefaultDialTimeout = 15 * time.Second

// Publisher forwards status messages to a remote relay.
type Publisher struct {
	io     *sioclient.Socket
	logger *slog.Logger
}

// Dial connects to the relay at rawURL and waits until the connection is
// established.
func Dial(ctx context.Context, rawURL string, timeout time.Duration) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "feed", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	opts := sioclient.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := sioclient.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	connectChan := make(chan error, 1)
	io.Once("connect", func(...any) {
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once("connect_error", func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Connecting to status feed...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("status feed connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for status feed connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for status feed connection", timeout)
	}

	logger.Info("📡 Connected to status feed.", "sid", io.Id())
	return &Publisher{io: io, logger: logger}, nil
}

// Publish sends msg to the relay.
func (p *Publisher) Publish(msg Message) {
	wire, err := msg.wire()
	if err != nil {
		p.logger.Warn("Failed to encode status message.", "node", msg.NodeID, "error", err)
		return
	}
	p.io.Emit(EventStatus, wire)
}

// Observer returns a store observer that publishes every write.
func (p *Publisher) Observer() nodestore.Observer {
	return func(ctx context.Context, ev nodestore.Event) {
		p.Publish(MessageFromEvent(ctx, ev))
	}
}

// Close disconnects from the relay.
func (p *Publisher) Close() {
	p.io.Disconnect()
}
