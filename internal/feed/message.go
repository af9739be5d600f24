package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
)

// Event names.
const (
	EventStatus   = "node:status"
	EventSnapshot = "snapshot"
)

// Message is the body of a node:status event.
type Message struct {
	RunID      string        `json:"runId,omitempty"`
	NodeID     string        `json:"nodeId"`
	Status     model.Status  `json:"status"`
	LastOutput model.Payload `json:"lastOutput,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// MessageFromEvent builds a message from a store event. The run id is taken
// from ctx when the write happened inside a run.
func MessageFromEvent(ctx context.Context, ev nodestore.Event) Message {
	msg := Message{
		NodeID:     ev.NodeID,
		Status:     ev.Record.Status,
		LastOutput: ev.Record.LastOutput,
		UpdatedAt:  ev.Record.UpdatedAt,
	}
	if id, ok := scheduler.RunIDFromContext(ctx); ok {
		msg.RunID = id.String()
	}
	return msg
}

// wire converts the message into the generic form socket.io serializes.
func (m Message) wire() (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeMessage reads a message from a decoded event argument.
func decodeMessage(v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode status message: %w", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to decode status message: %w", err)
	}
	if m.NodeID == "" {
		return Message{}, fmt.Errorf("status message has no nodeId")
	}
	return m, nil
}
