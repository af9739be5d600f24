package simple

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunSimple(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 30, 0, 500, time.UTC)
	m := &Module{Now: func() time.Time { return fixed }}
	n := model.NewNode("worker", model.KindSimple, nil)
	input := model.Payload{"initialValue": "hello world"}

	res, err := m.OnRunSimple(context.Background(), n, input)
	require.NoError(t, err)

	want := model.Payload{
		"initialValue": "hello world",
		"processedBy":  "worker",
		"processedAt":  "2025-03-01T12:30:00.0000005Z",
	}
	if diff := cmp.Diff(want, res.Output); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, input, KeyProcessedBy, "input must not be modified")
}

func TestOnRunSimple_IsPureModuloTimestamp(t *testing.T) {
	m := &Module{}
	n := model.NewNode("worker", model.KindSimple, nil)
	input := model.Payload{"a": 1.0, "b": []any{"x"}}

	first, err := m.OnRunSimple(context.Background(), n, input)
	require.NoError(t, err)
	second, err := m.OnRunSimple(context.Background(), n, input)
	require.NoError(t, err)

	delete(first.Output, KeyProcessedAt)
	delete(second.Output, KeyProcessedAt)
	assert.Equal(t, first.Output, second.Output)
}

func TestModule_Register(t *testing.T) {
	r := registry.New(&Module{})
	_, ok := r.Handler(model.KindSimple)
	assert.True(t, ok)
}
