package websockets

import (
	"encoding/json"
	"fmt"
)

// RequestID is the correlation identifier used for the one request a
// session sends.
const RequestID = 13

// Request is a method call sent to the server.
type Request struct {
	Namespace string `json:"namespace"`
	Method    string `json:"method"`
	RequestID int    `json:"requestID,omitempty"` // Omitted on the token connect call
	Arguments []any  `json:"arguments,omitempty"` // Omitted when the method takes none
}

// Inbound is a message received from the server. Broadcasts set Channel and
// Payload; responses set RequestID and Value.
type Inbound struct {
	Channel   string          `json:"channel,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID *int            `json:"requestID,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// IsBroadcast reports whether the message is a channel broadcast.
func (m *Inbound) IsBroadcast() bool {
	return m.Channel != ""
}

// IsResponseTo reports whether the message answers the request with id.
func (m *Inbound) IsResponseTo(id int) bool {
	return m.RequestID != nil && *m.RequestID == id
}

// ParseInbound decodes a text frame.
func ParseInbound(data []byte) (*Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}
