package relay

import "context"

// Registry is the durable mapping of live connection id to (report, role).
// Save upserts by connection id; Delete is idempotent; FindByReportID
// returns entries in no particular order. Many connections may watch the
// same report concurrently.
type Registry interface {
	Save(ctx context.Context, entry *ConnectionEntry) error
	DeleteByConnectionID(ctx context.Context, connectionID string) error
	FindByReportID(ctx context.Context, reportID string) ([]*ConnectionEntry, error)
	FindByConnectionID(ctx context.Context, connectionID string) (*ConnectionEntry, error)
}

// PushResult classifies a delivery attempt. Implementations must collapse
// transport-specific failures into exactly these kinds before the relay
// applies its eviction policy.
type PushResult int

const (
	// PushOK means the peer accepted the payload.
	PushOK PushResult = iota
	// PushGone means the peer's transport session no longer exists; the
	// registry entry is stale and gets evicted.
	PushGone
	// PushTransient covers every other failure. The entry is kept; retries,
	// if any, belong to the transport boundary.
	PushTransient
)

// Pusher is the capability the transport boundary exposes for delivering a
// payload to one specific connection.
type Pusher interface {
	PushToConnection(ctx context.Context, connectionID string, payload []byte) (PushResult, error)
}
