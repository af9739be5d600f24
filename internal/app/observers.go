package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/feed"
	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
)

// logObserver traces every node state change at debug level.
func logObserver(ctx context.Context, ev nodestore.Event) {
	ctxlog.FromContext(ctx).Debug("Node state changed.", "node", ev.NodeID, "status", ev.Record.Status)
}

// attachFeed starts the status relay and publisher when they are configured
// and subscribes them to the graph. The returned function tears both down.
func (app *App) attachFeed(ctx context.Context, g graph.Graph) (func(), error) {
	logger := ctxlog.FromContext(ctx)
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if app.config.FeedPort > 0 {
		relay := feed.NewServer(ctx)
		mux := http.NewServeMux()
		mux.Handle(feed.Path, relay.Handler())

		addr := fmt.Sprintf(":%d", app.config.FeedPort)
		app.feedServer = &http.Server{Addr: addr, Handler: mux}
		go func() {
			logger.Info("📡 Status feed starting", "address", fmt.Sprintf("http://localhost%s%s", addr, feed.Path))
			if err := app.feedServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status feed server failed unexpectedly", "error", err)
			}
		}()

		g.Subscribe(relay.Observer())
		closers = append(closers, func() {
			relay.Close()
			shutdownCtx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
			defer cancel()
			if err := app.feedServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Status feed shutdown failed", "error", err)
			}
		})
	}

	if app.config.FeedURL != "" {
		pub, err := feed.Dial(ctx, app.config.FeedURL, feed.DefaultDialTimeout)
		if err != nil {
			closeAll()
			return nil, err
		}
		g.Subscribe(pub.Observer())
		closers = append(closers, pub.Close)
	}

	return closeAll, nil
}
