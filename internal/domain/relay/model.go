package relay

import "time"

// Role identifies which side of a conversation a connection watches from.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleReporter Role = "REPORTER"
	// RoleUnknown is used when the sender cannot be resolved from the
	// registry or the event payload. Delivery is still attempted.
	RoleUnknown Role = "UNKNOWN"
)

// ConnectionEntry is one live realtime-transport session bound to a report
// and a role. A connectionId absent from the registry is not connected.
type ConnectionEntry struct {
	ConnectionID string    `json:"connectionId"`
	ReportID     string    `json:"reportId"`
	Role         Role      `json:"userType"`
	ConnectedAt  time.Time `json:"connectedAt"`
}

// Envelope is the wire format pushed to peers. Sender duplicates UserType
// for compatibility with existing clients.
type Envelope struct {
	Message  string `json:"message"`
	UserType Role   `json:"userType"`
	Sender   Role   `json:"sender"`
}

// ConnectEvent is delivered by the transport boundary when a socket opens.
type ConnectEvent struct {
	ConnectionID string `json:"connectionId"`
	ReportID     string `json:"reportId"`
	Role         Role   `json:"userType"`
}

// DisconnectEvent is delivered when a socket closes.
type DisconnectEvent struct {
	ConnectionID string `json:"connectionId"`
}

// MessageEvent is delivered for each inbound realtime message. Role is an
// optional fallback used only when the sender's connection is not in the
// registry.
type MessageEvent struct {
	ConnectionID string `json:"connectionId"`
	ReportID     string `json:"reportId"`
	Message      string `json:"message"`
	Role         Role   `json:"userType,omitempty"`
}

// EventResponse is what the function-style entry points hand back to the
// transport boundary: a status code and, on failure, the error message for
// operator visibility. The realtime path never raises taxonomy errors.
type EventResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error,omitempty"`
}
