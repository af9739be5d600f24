package snapshot

// Property field types.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
	TypeCheckbox = "checkbox"
)

// Property names used in the JSON form.
const (
	PropURL        = "url"
	PropMethod     = "method"
	PropUseProxy   = "useProxy"
	PropPath       = "path"
	PropComparison = "comparison"
	PropValue      = "value"
	PropInputs     = "inputs"
)

// Document is the root of a JSON workflow snapshot.
type Document struct {
	Name        string       `json:"name,omitempty"`
	Nodes       []Node       `json:"nodes" validate:"dive"`
	Connections []Connection `json:"connections" validate:"dive"`
}

// Node is a node in its persisted form.
type Node struct {
	ID         string     `json:"id" validate:"required"`
	Kind       string     `json:"kind" validate:"required"`
	Name       string     `json:"name,omitempty"`
	Properties []Property `json:"properties" validate:"dive"`
	Inputs     []Port     `json:"inputs,omitempty" validate:"dive"`
	Outputs    []Port     `json:"outputs,omitempty" validate:"dive"`
	Position   Position   `json:"position"`
}

// Property is one editable field of a node.
type Property struct {
	Name    string   `json:"name" validate:"required"`
	Type    string   `json:"type" validate:"required,oneof=text textarea select checkbox"`
	Value   any      `json:"value"`
	Options []string `json:"options,omitempty"`
}

// Port is a persisted port. Its direction follows from the list it is in.
type Port struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label,omitempty"`
}

// Position is the canvas location of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Endpoint addresses a port of a node.
type Endpoint struct {
	NodeID string `json:"nodeId" validate:"required"`
	PortID string `json:"portId" validate:"required"`
}

// Connection is a persisted edge.
type Connection struct {
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}
