// Package connid implements the local connection ID lifecycle of a QUIC-like
// transport: issuing connection IDs to the peer, announcing them, and
// retiring them again, while keeping a shared connection ID map in sync.
package connid

import (
	"errors"
	"fmt"
	"time"

	"github.com/quicfoundry/connid/internal/ackhandler"
	"github.com/quicfoundry/connid/internal/protocol"
	"github.com/quicfoundry/connid/internal/qerr"
	"github.com/quicfoundry/connid/internal/utils"
	"github.com/quicfoundry/connid/internal/wire"
	"github.com/quicfoundry/connid/logging"
)

// ExpirationBuffer is subtracted from a connection ID's expiration to obtain
// its retirement time. It needs to exceed the time the peer may take to
// process the retirement and retransmit in-flight packets.
const ExpirationBuffer = 30 * time.Second

// Grace period granted for reordered in-flight packets when the peer retires
// a connection ID, expressed as a multiple of the path's RTT.
const retireGracePeriodRTTs = 3

// ErrConnectionIDInUse is returned when registering a connection ID that is
// already registered, either on this registry or by another connection in
// the shared connection ID map.
var ErrConnectionIDInUse = errors.New("connection ID is already in use")

// ErrRegistryClosed is returned when using a registry after Close.
var ErrRegistryClosed = errors.New("connection ID registry closed")

type status uint8

const (
	// registered, announcement not yet sent
	statusPendingIssuance status = iota
	// announcement presumed lost, needs to be retransmitted
	statusPendingReissue
	// announcement sent, waiting for the packet to be acknowledged
	statusPendingAcknowledgement
	// acknowledged by the peer, or conveyed implicitly during the handshake
	statusActive
	// retired locally, waiting for the peer to confirm
	statusPendingRetirementConfirmation
	// retirement confirmed, kept around for reordered in-flight packets
	statusPendingRemoval
)

func (s status) String() string {
	switch s {
	case statusPendingIssuance:
		return "pending issuance"
	case statusPendingReissue:
		return "pending reissue"
	case statusPendingAcknowledgement:
		return "pending acknowledgement"
	case statusActive:
		return "active"
	case statusPendingRetirementConfirmation:
		return "pending retirement confirmation"
	case statusPendingRemoval:
		return "pending removal"
	default:
		return fmt.Sprintf("invalid status: %d", s)
	}
}

// countsTowardLimit says if a connection ID in this status counts toward the
// active connection ID limit. Retiring connection IDs don't: the peer has
// been asked to stop using them.
func (s status) countsTowardLimit() bool {
	return s != statusPendingRetirementConfirmation && s != statusPendingRemoval
}

// localConnID is one connection ID issued to the peer.
type localConnID struct {
	sequenceNumber uint64
	connID         protocol.ConnectionID
	resetToken     protocol.StatelessResetToken
	status         status

	// packet number of the packet the announcement was last sent in,
	// only valid in statusPendingAcknowledgement
	sentIn protocol.PacketNumber
	// when to start retiring this connection ID, zero if it doesn't expire
	retirementTime time.Time
	// when to discard this connection ID's state,
	// only valid in the two retiring statuses
	removalTime time.Time
}

// nextTransition returns the time of the next timer-driven status change,
// or the zero time if there is none.
func (c *localConnID) nextTransition() time.Time {
	if !c.status.countsTowardLimit() {
		return c.removalTime
	}
	return c.retirementTime
}

// A Registry manages the connection IDs issued to the peer on a single
// connection. It is not safe for concurrent use: all methods must be called
// from the connection's processing loop.
//
// The registry keeps a shared connection ID map in sync through the tryAdd
// and remove callbacks, so incoming packets can be dispatched to the owning
// connection. It never waits itself; the owning event loop must call
// OnTimeout no later than NextTimeout.
type Registry struct {
	connIDs []localConnID // ordered by sequence number, rarely more than 3 entries

	nextSequenceNumber uint64
	// Sequence numbers below this value have been retired locally.
	// Announced to the peer in the Retire Prior To field.
	retirePriorTo uint64
	limit         uint64

	deadline time.Time

	tryAddConnectionID func(protocol.ConnectionID) bool
	removeConnectionID func(protocol.ConnectionID)

	tracer *logging.ConnectionTracer
	logger utils.Logger

	closed bool
}

// NewRegistry creates a registry seeded with the connection ID used during
// the handshake. That connection ID gets sequence number 0 and is active
// right away: it was conveyed implicitly by the first packet.
//
// tryAdd and remove bind the registry to the shared connection ID map. If
// the initial connection ID is already taken there, NewRegistry fails with
// ErrConnectionIDInUse.
func NewRegistry(
	initialConnID protocol.ConnectionID,
	initialResetToken protocol.StatelessResetToken,
	tryAdd func(protocol.ConnectionID) bool,
	remove func(protocol.ConnectionID),
	tracer *logging.ConnectionTracer,
	logger utils.Logger,
) (*Registry, error) {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	if !tryAdd(initialConnID) {
		return nil, ErrConnectionIDInUse
	}
	r := &Registry{
		connIDs: []localConnID{{
			sequenceNumber: 0,
			connID:         initialConnID,
			resetToken:     initialResetToken,
			status:         statusActive,
			sentIn:         protocol.InvalidPacketNumber,
		}},
		nextSequenceNumber: 1,
		limit:              1,
		tryAddConnectionID: tryAdd,
		removeConnectionID: remove,
		tracer:             tracer,
		logger:             logger,
	}
	if r.tracer != nil && r.tracer.IssuedConnectionID != nil {
		r.tracer.IssuedConnectionID(0, initialConnID)
	}
	return r, nil
}

// SetActiveConnectionIDLimit sets the number of connection IDs the peer is
// willing to store, as announced in its transport parameters. The usable
// limit is capped at protocol.MaxIssuedConnectionIDs, bounding the state we
// keep per connection no matter what the peer tolerates.
func (r *Registry) SetActiveConnectionIDLimit(limit uint64) {
	r.limit = utils.Min(uint64(protocol.MaxIssuedConnectionIDs), limit)
}

// Register adds a new connection ID to be issued to the peer.
// A zero expiration means the connection ID doesn't expire; otherwise it is
// scheduled for retirement ExpirationBuffer before the expiration, leaving
// the peer time to switch away from it.
//
// The connection ID byte value and the reset token are chosen by the caller
// (usually randomly generated). Register fails with ErrConnectionIDInUse if
// the connection ID is already registered here or taken by another
// connection in the shared map; neither case mutates local state.
func (r *Registry) Register(connID protocol.ConnectionID, resetToken protocol.StatelessResetToken, expiration time.Time) error {
	if r.closed {
		return ErrRegistryClosed
	}
	counted := 0
	for i := range r.connIDs {
		c := &r.connIDs[i]
		if c.connID.Equal(connID) {
			return ErrConnectionIDInUse
		}
		if c.status.countsTowardLimit() {
			counted++
		}
		// The token is caller-generated randomness; a collision is a local
		// bug, not peer behavior.
		if !c.resetToken.IsZero() && c.resetToken == resetToken {
			panic("connid: BUG: duplicate stateless reset token")
		}
	}
	if uint64(counted) >= r.limit {
		panic(fmt.Sprintf("connid: BUG: connection ID limit exceeded (%d >= %d)", counted, r.limit))
	}
	if !r.tryAddConnectionID(connID) {
		return ErrConnectionIDInUse
	}

	seq := r.nextSequenceNumber
	r.nextSequenceNumber++
	c := localConnID{
		sequenceNumber: seq,
		connID:         connID,
		resetToken:     resetToken,
		status:         statusPendingIssuance,
		sentIn:         protocol.InvalidPacketNumber,
	}
	if !expiration.IsZero() {
		c.retirementTime = expiration.Add(-ExpirationBuffer)
	}
	r.connIDs = append(r.connIDs, c)

	r.logger.Debugf("Registered connection ID %s (sequence number %d)", connID, seq)
	if r.tracer != nil && r.tracer.IssuedConnectionID != nil {
		r.tracer.IssuedConnectionID(seq, connID)
	}
	r.resetTimer()
	return nil
}

// Interest returns how many additional connection IDs can be registered
// before hitting the active connection ID limit.
func (r *Registry) Interest() uint64 {
	counted := uint64(0)
	for i := range r.connIDs {
		if r.connIDs[i].status.countsTowardLimit() {
			counted++
		}
	}
	if counted > r.limit {
		panic(fmt.Sprintf("connid: BUG: %d connection IDs issued, limit is %d", counted, r.limit))
	}
	return r.limit - counted
}

// OnTransmit collects the announcements that may be sent in packet pn under
// the given send mode and marks them as awaiting acknowledgement of that
// packet. Initial announcements need a send mode that allows new data;
// announcements whose packet was lost only need retransmissions to be
// allowed.
//
// The caller must place the returned frames into packet pn and report the
// packet's fate via OnPacketAcked or OnPacketLost.
func (r *Registry) OnTransmit(pn protocol.PacketNumber, mode ackhandler.SendMode) []*wire.NewConnectionIDFrame {
	var frames []*wire.NewConnectionIDFrame
	for i := range r.connIDs {
		c := &r.connIDs[i]
		var send bool
		switch c.status {
		case statusPendingIssuance:
			send = mode == ackhandler.SendAny
		case statusPendingReissue:
			send = mode != ackhandler.SendNone
		}
		if !send {
			continue
		}
		frames = append(frames, &wire.NewConnectionIDFrame{
			SequenceNumber:      c.sequenceNumber,
			RetirePriorTo:       r.retirePriorTo,
			ConnectionID:        c.connID,
			StatelessResetToken: c.resetToken,
		})
		c.status = statusPendingAcknowledgement
		c.sentIn = pn
	}
	return frames
}

// OnPacketAcked is called when a packet carrying announcements was
// acknowledged. The announced connection IDs become active, and their reset
// tokens are zeroed: the peer holds them now.
func (r *Registry) OnPacketAcked(pn protocol.PacketNumber) {
	for i := range r.connIDs {
		c := &r.connIDs[i]
		if c.status != statusPendingAcknowledgement || c.sentIn != pn {
			continue
		}
		c.status = statusActive
		c.sentIn = protocol.InvalidPacketNumber
		c.resetToken = protocol.StatelessResetToken{}
		r.logger.Debugf("Connection ID %s (sequence number %d) acknowledged", c.connID, c.sequenceNumber)
	}
}

// OnPacketLost is called when a packet carrying announcements was declared
// lost. The announcements are queued for retransmission.
func (r *Registry) OnPacketLost(pn protocol.PacketNumber) {
	for i := range r.connIDs {
		c := &r.connIDs[i]
		if c.status != statusPendingAcknowledgement || c.sentIn != pn {
			continue
		}
		c.status = statusPendingReissue
		c.sentIn = protocol.InvalidPacketNumber
		r.logger.Debugf("Announcement of connection ID %s (sequence number %d) lost", c.connID, c.sequenceNumber)
	}
}

// OnRetireConnectionID handles a RETIRE_CONNECTION_ID frame sent by the
// peer. sentWithDestConnID is the Destination Connection ID of the packet
// that carried the frame: the peer is not allowed to retire the connection
// ID it is still routing packets with.
//
// The retired connection ID is kept for a grace period derived from the
// path's RTT, so reordered packets still in flight can be dispatched, and
// is discarded by a later OnTimeout. Retiring an unknown-but-once-issued or
// already-retiring sequence number is a no-op.
func (r *Registry) OnRetireConnectionID(seq uint64, sentWithDestConnID protocol.ConnectionID, rtt time.Duration, now time.Time) error {
	if r.closed {
		return ErrRegistryClosed
	}
	if seq >= r.nextSequenceNumber {
		return &qerr.TransportError{
			ErrorCode:    qerr.ProtocolViolation,
			ErrorMessage: fmt.Sprintf("retired connection ID %d (highest issued: %d)", seq, r.nextSequenceNumber-1),
		}
	}
	for i := range r.connIDs {
		c := &r.connIDs[i]
		if c.sequenceNumber != seq {
			continue
		}
		if c.connID.Equal(sentWithDestConnID) {
			return &qerr.TransportError{
				ErrorCode:    qerr.ProtocolViolation,
				ErrorMessage: fmt.Sprintf("retired connection ID %d (%s), which was used as the Destination Connection ID on this packet", seq, c.connID),
			}
		}
		if c.status == statusPendingRemoval {
			// duplicate retirement, the removal is already scheduled
			return nil
		}
		firstRetirement := c.status.countsTowardLimit()
		c.status = statusPendingRemoval
		c.removalTime = now.Add(retireGracePeriodRTTs * rtt)
		r.logger.Debugf("Peer retired connection ID %s (sequence number %d); removing at %s", c.connID, seq, c.removalTime)
		if firstRetirement && r.tracer != nil && r.tracer.RetiredConnectionID != nil {
			r.tracer.RetiredConnectionID(seq, c.connID)
		}
		r.resetTimer()
		return nil
	}
	// already swept, nothing left to do
	return nil
}

// RetireAll retires every connection ID that is not already retiring, e.g.
// when the path they were issued for is abandoned. The retirements are
// announced through the Retire Prior To field of subsequent announcements;
// each connection ID is force-removed after ExpirationBuffer even if the
// peer never confirms. Calling RetireAll again is a no-op.
func (r *Registry) RetireAll(now time.Time) {
	var retired bool
	for i := range r.connIDs {
		if r.connIDs[i].status.countsTowardLimit() {
			r.retireConnID(&r.connIDs[i], now)
			retired = true
		}
	}
	if retired {
		r.resetTimer()
	}
}

func (r *Registry) retireConnID(c *localConnID, now time.Time) {
	c.status = statusPendingRetirementConfirmation
	c.removalTime = now.Add(ExpirationBuffer)
	// Retiring a connection ID implicitly retires all lower sequence numbers.
	if c.sequenceNumber+1 > r.retirePriorTo {
		r.retirePriorTo = c.sequenceNumber + 1
	}
	r.logger.Debugf("Retiring connection ID %s (sequence number %d)", c.connID, c.sequenceNumber)
	if r.tracer != nil && r.tracer.RetiredConnectionID != nil {
		r.tracer.RetiredConnectionID(c.sequenceNumber, c.connID)
	}
}

// OnTimeout performs all timer-driven transitions that are due at now:
// connection IDs whose retirement time elapsed start retiring, and retiring
// connection IDs whose removal time elapsed are discarded, both locally and
// from the shared connection ID map.
func (r *Registry) OnTimeout(now time.Time) {
	if r.closed {
		return
	}
	for i := range r.connIDs {
		c := &r.connIDs[i]
		if c.status.countsTowardLimit() && !c.retirementTime.IsZero() && !now.Before(c.retirementTime) {
			r.retireConnID(c, now)
		}
	}
	// sweep: rebuild the slice instead of deleting in place
	remaining := r.connIDs[:0]
	for i := range r.connIDs {
		c := r.connIDs[i]
		if !c.status.countsTowardLimit() && !now.Before(c.removalTime) {
			r.removeConnectionID(c.connID)
			r.logger.Debugf("Removed connection ID %s (sequence number %d)", c.connID, c.sequenceNumber)
			if r.tracer != nil && r.tracer.RemovedConnectionID != nil {
				r.tracer.RemovedConnectionID(c.sequenceNumber, c.connID)
			}
			continue
		}
		remaining = append(remaining, c)
	}
	r.connIDs = remaining
	r.resetTimer()
}

// NextTimeout returns the next time OnTimeout needs to be called, or the
// zero time if no timer-driven transition is pending.
func (r *Registry) NextTimeout() time.Time {
	return r.deadline
}

func (r *Registry) resetTimer() {
	var deadline time.Time
	for i := range r.connIDs {
		deadline = utils.MinNonZeroTime(deadline, r.connIDs[i].nextTransition())
	}
	if deadline.Equal(r.deadline) {
		return
	}
	r.deadline = deadline
	if r.tracer != nil && r.tracer.UpdatedTimer != nil {
		r.tracer.UpdatedTimer(deadline)
	}
}

// Close removes every connection ID still registered from the shared
// connection ID map. It must be called exactly once on every teardown path;
// further calls are no-ops.
func (r *Registry) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for i := range r.connIDs {
		r.removeConnectionID(r.connIDs[i].connID)
	}
	r.connIDs = nil
	r.deadline = time.Time{}
}
