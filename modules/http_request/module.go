// Package http_request implements the http node. It issues one request per
// execution and turns the JSON response body into the node's output.
package http_request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"resty.dev/v3"
)

const (
	// DefaultProxyBaseURL is prefixed to the percent-encoded target URL when
	// a node has UseProxy set.
	DefaultProxyBaseURL = "https://api.allorigins.win/raw?url="
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client is the HTTP client used for every request. A client is created
	// on first use when nil.
	Client       *resty.Client
	ProxyBaseURL string
	Timeout      time.Duration

	once sync.Once
}

// TargetURL returns the URL a node's request is sent to.
func TargetURL(props model.HTTPProperties, proxyBaseURL string) string {
	if !props.UseProxy {
		return props.URL
	}
	if proxyBaseURL == "" {
		proxyBaseURL = DefaultProxyBaseURL
	}
	return proxyBaseURL + percentEncode(props.URL)
}

// componentUnescaper restores what url.QueryEscape escapes but URI
// component encoding keeps literal, and turns its '+' for space into %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// percentEncode encodes s as a single URI component.
func percentEncode(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func (m *Module) client() *resty.Client {
	m.once.Do(func() {
		if m.Client == nil {
			m.Client = resty.New()
		}
		m.Client.AddContentTypeEncoder("json", func(w io.Writer, v any) error {
			return json.NewEncoder(w).Encode(v)
		})
	})
	return m.Client
}

// OnRunHttpRequest is the handler for http nodes.
func (m *Module) OnRunHttpRequest(ctx context.Context, n *model.Node, input model.Payload) (*registry.Result, error) {
	logger := ctxlog.FromContext(ctx)

	props, ok := n.Properties.(model.HTTPProperties)
	if !ok {
		return nil, fmt.Errorf("%w: expected http properties, got %T", model.ErrInvalidProperties, n.Properties)
	}
	method := props.EffectiveMethod()
	target := TargetURL(props, m.ProxyBaseURL)

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := m.client().R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if method == "POST" || method == "PUT" {
		body := input
		if body == nil {
			body = model.Payload{}
		}
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	logger.Info("Making HTTP request", "node", n.ID, "method", method, "url", target)
	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	logger.Debug("Received HTTP response", "node", n.ID, "status", resp.Status())

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("request failed with status %s", resp.Status())
	}

	out, err := decodeBody(resp.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse response body: %w", err)
	}
	return &registry.Result{Output: out}, nil
}

// decodeBody turns a JSON response body into a payload. Objects become the
// payload itself; any other JSON value is wrapped under "data".
func decodeBody(body []byte) (model.Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return model.Payload{}, nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	if obj, ok := v.(map[string]any); ok {
		return model.Payload(obj), nil
	}
	return model.Payload{"data": v}, nil
}

// Close releases the idle connections of the client.
func (m *Module) Close() error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Close()
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(model.KindHTTP, m.OnRunHttpRequest)
}
