// Package logging defines the tracing interface for connid.
package logging

import (
	"time"

	"github.com/quicfoundry/connid/internal/protocol"
)

type (
	// A ConnectionID is a QUIC Connection ID.
	ConnectionID = protocol.ConnectionID
	// A StatelessResetToken is a stateless reset token.
	StatelessResetToken = protocol.StatelessResetToken
	// A PacketNumber is a QUIC packet number.
	PacketNumber = protocol.PacketNumber
)

// A ConnectionTracer records connection ID lifecycle events of a single
// connection. Any of the callbacks may be nil.
type ConnectionTracer struct {
	// IssuedConnectionID is called when a connection ID is registered and
	// scheduled for announcement to the peer. The initial connection ID
	// (sequence number 0) is reported as well.
	IssuedConnectionID func(sequenceNumber uint64, connID ConnectionID)
	// RetiredConnectionID is called when a connection ID enters its
	// retirement phase, locally initiated or requested by the peer.
	RetiredConnectionID func(sequenceNumber uint64, connID ConnectionID)
	// RemovedConnectionID is called when a retired connection ID's grace
	// period elapsed and its state was discarded.
	RemovedConnectionID func(sequenceNumber uint64, connID ConnectionID)
	// UpdatedTimer is called whenever the registry's expiration deadline
	// changes. A zero deadline means no transition is scheduled.
	UpdatedTimer func(deadline time.Time)
}

// NewMultiplexedConnectionTracer creates a new connection tracer that
// multiplexes events to all given tracers.
func NewMultiplexedConnectionTracer(tracers ...*ConnectionTracer) *ConnectionTracer {
	if len(tracers) == 0 {
		return nil
	}
	if len(tracers) == 1 {
		return tracers[0]
	}
	return &ConnectionTracer{
		IssuedConnectionID: func(sequenceNumber uint64, connID ConnectionID) {
			for _, t := range tracers {
				if t.IssuedConnectionID != nil {
					t.IssuedConnectionID(sequenceNumber, connID)
				}
			}
		},
		RetiredConnectionID: func(sequenceNumber uint64, connID ConnectionID) {
			for _, t := range tracers {
				if t.RetiredConnectionID != nil {
					t.RetiredConnectionID(sequenceNumber, connID)
				}
			}
		},
		RemovedConnectionID: func(sequenceNumber uint64, connID ConnectionID) {
			for _, t := range tracers {
				if t.RemovedConnectionID != nil {
					t.RemovedConnectionID(sequenceNumber, connID)
				}
			}
		},
		UpdatedTimer: func(deadline time.Time) {
			for _, t := range tracers {
				if t.UpdatedTimer != nil {
					t.UpdatedTimer(deadline)
				}
			}
		},
	}
}
