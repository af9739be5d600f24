package scheduler

import (
	"fmt"
	"sync"

	"dario.cat/mergo"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// join collects the arrivals of one merge node within a run.
type join struct {
	mu       sync.Mutex
	order    []string // expected input ports, in port order
	arrivals map[string]arrival
	done     bool
}

type arrival struct {
	payload model.Payload
	live    bool
}

// newJoin expects one arrival per incoming connection whose source is
// reachable from the start node.
func newJoin(incoming []model.Connection, reachable map[string]struct{}) *join {
	j := &join{arrivals: make(map[string]arrival)}
	for _, c := range incoming {
		if _, ok := reachable[c.From.NodeID]; ok {
			j.order = append(j.order, c.To.PortID)
		}
	}
	return j
}

// arrive records an arrival on port. Exactly one caller sees ready == true:
// the one delivering the last expected arrival. fire reports whether at least
// one arrival carried a payload; combined is then the merged payload.
func (j *join) arrive(port string, payload model.Payload, live bool) (combined model.Payload, ready, fire bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.done {
		return nil, false, false, fmt.Errorf("%w: arrival on '%s' after the merge settled", model.ErrRevisit, port)
	}
	if _, dup := j.arrivals[port]; dup {
		return nil, false, false, fmt.Errorf("%w: second arrival on '%s'", model.ErrRevisit, port)
	}
	j.arrivals[port] = arrival{payload: payload, live: live}
	if len(j.arrivals) < len(j.order) {
		return nil, false, false, nil
	}
	j.done = true

	var delivered []model.Payload
	for _, p := range j.order {
		if a := j.arrivals[p]; a.live {
			delivered = append(delivered, a.payload)
		}
	}
	if len(delivered) == 0 {
		return nil, true, false, nil
	}
	combined, err = Combine(delivered...)
	if err != nil {
		return nil, false, false, err
	}
	return combined, true, true, nil
}

// Combine merges payloads left to right. Keys already present are kept, even
// when they hold a zero value, so earlier payloads win on conflicts. Nested
// maps are merged key by key.
func Combine(payloads ...model.Payload) (model.Payload, error) {
	out := model.Payload{}
	for _, p := range payloads {
		if p == nil {
			continue
		}
		if err := mergo.Merge(&out, p.Clone(), mergo.WithoutDereference); err != nil {
			return nil, fmt.Errorf("failed to combine payloads: %w", err)
		}
	}
	return out, nil
}
