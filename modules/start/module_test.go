package start

import (
	"context"
	"testing"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunStart(t *testing.T) {
	n := model.NewNode("begin", model.KindStart, nil)
	seed := model.Payload{"initialValue": "hello world", "nested": map[string]any{"k": "v"}}

	res, err := OnRunStart(context.Background(), n, seed)
	require.NoError(t, err)
	assert.Equal(t, seed, res.Output)
	assert.Empty(t, res.Port)

	res.Output["nested"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", seed["nested"].(map[string]any)["k"], "seed must not be shared with the output")

	res, err = OnRunStart(context.Background(), n, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Payload{}, res.Output)
}
