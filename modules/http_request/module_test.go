package http_request

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpNode(props model.HTTPProperties) *model.Node {
	return model.NewNode("fetch", model.KindHTTP, props)
}

func newModule(t *testing.T) *Module {
	t.Helper()
	m := &Module{Timeout: 2 * time.Second}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestTargetURL(t *testing.T) {
	props := model.HTTPProperties{URL: "https://example.com/a?b=c"}
	assert.Equal(t, "https://example.com/a?b=c", TargetURL(props, "https://proxy/raw?url="))

	props.UseProxy = true
	assert.Equal(t, "https://api.allorigins.win/raw?url=https%3A%2F%2Fexample.com%2Fa%3Fb%3Dc", TargetURL(props, ""))
	assert.Equal(t, "https://proxy/raw?url=https%3A%2F%2Fexample.com%2Fa%3Fb%3Dc", TargetURL(props, "https://proxy/raw?url="))

	testCases := []struct {
		raw  string
		want string
	}{
		{raw: "https://example.com/a b", want: "https%3A%2F%2Fexample.com%2Fa%20b"},
		{raw: "https://example.com/?q=a+b", want: "https%3A%2F%2Fexample.com%2F%3Fq%3Da%2Bb"},
		{raw: "https://example.com/it's(1)*!~", want: "https%3A%2F%2Fexample.com%2Fit's(1)*!~"},
		{raw: "https://example.com/ü", want: "https%3A%2F%2Fexample.com%2F%C3%BC"},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got := TargetURL(model.HTTPProperties{URL: tc.raw, UseProxy: true}, "https://proxy/raw?url=")
			assert.Equal(t, "https://proxy/raw?url="+tc.want, got)
		})
	}
}

func TestOnRunHttpRequest_GetObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 1, "user": {"name": "ada"}}`)
	}))
	defer srv.Close()

	res, err := newModule(t).OnRunHttpRequest(context.Background(), httpNode(model.HTTPProperties{URL: srv.URL}), model.Payload{})
	require.NoError(t, err)
	assert.Equal(t, model.Payload{"id": 1.0, "user": map[string]any{"name": "ada"}}, res.Output)
	assert.Empty(t, res.Port)
}

func TestOnRunHttpRequest_PostSendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		body["echoed"] = true
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	n := httpNode(model.HTTPProperties{URL: srv.URL, Method: "post"})
	res, err := newModule(t).OnRunHttpRequest(context.Background(), n, model.Payload{"initialValue": "hello world"})
	require.NoError(t, err)
	assert.Equal(t, model.Payload{"initialValue": "hello world", "echoed": true}, res.Output)
}

func TestOnRunHttpRequest_BodyShapes(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want model.Payload
	}{
		{name: "array is wrapped", body: `[1, 2]`, want: model.Payload{"data": []any{1.0, 2.0}}},
		{name: "string is wrapped", body: `"ok"`, want: model.Payload{"data": "ok"}},
		{name: "empty body", body: ``, want: model.Payload{}},
		{name: "whitespace body", body: "  \n", want: model.Payload{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			res, err := newModule(t).OnRunHttpRequest(context.Background(), httpNode(model.HTTPProperties{URL: srv.URL}), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Output)
		})
	}
}

func TestOnRunHttpRequest_Failures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, "boom")
		}))
		defer srv.Close()

		_, err := newModule(t).OnRunHttpRequest(context.Background(), httpNode(model.HTTPProperties{URL: srv.URL}), nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "500")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html>")
		}))
		defer srv.Close()

		_, err := newModule(t).OnRunHttpRequest(context.Background(), httpNode(model.HTTPProperties{URL: srv.URL}), nil)
		assert.ErrorContains(t, err, "failed to parse response body")
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := newModule(t).OnRunHttpRequest(context.Background(), httpNode(model.HTTPProperties{URL: addr}), nil)
		assert.ErrorContains(t, err, "failed to execute request")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		m := &Module{Timeout: 50 * time.Millisecond}
		defer m.Close()
		_, err := m.OnRunHttpRequest(context.Background(), httpNode(model.HTTPProperties{URL: srv.URL}), nil)
		assert.ErrorContains(t, err, "failed to execute request")
	})

	t.Run("wrong properties", func(t *testing.T) {
		n := model.NewNode("fetch", model.KindSimple, nil)
		_, err := newModule(t).OnRunHttpRequest(context.Background(), n, nil)
		assert.ErrorIs(t, err, model.ErrInvalidProperties)
	})
}

func TestOnRunHttpRequest_Proxy(t *testing.T) {
	const original = "https://api.example.com/users?id=7"
	var hits atomic.Int32

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/raw", r.URL.Path)
		assert.Equal(t, original, r.URL.Query().Get("url"))
		io.WriteString(w, `{"proxied": true}`)
	}))
	defer proxy.Close()

	m := newModule(t)
	m.ProxyBaseURL = proxy.URL + "/raw?url="

	n := httpNode(model.HTTPProperties{URL: original, UseProxy: true})
	res, err := m.OnRunHttpRequest(context.Background(), n, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Payload{"proxied": true}, res.Output)
	assert.EqualValues(t, 1, hits.Load())
}
