package connid

import (
	"github.com/quicfoundry/connid/internal/ackhandler"
	"github.com/quicfoundry/connid/internal/protocol"
	"github.com/quicfoundry/connid/internal/wire"
)

type (
	// A ConnectionID is an opaque byte sequence an endpoint uses in place of
	// a network address to associate packets with a connection.
	ConnectionID = protocol.ConnectionID
	// A StatelessResetToken is the secret that lets the peer recognize a
	// stateless reset after this endpoint lost its connection state.
	StatelessResetToken = protocol.StatelessResetToken
	// A PacketNumber identifies an outgoing packet.
	PacketNumber = protocol.PacketNumber

	// A NewConnectionIDFrame announces a connection ID to the peer.
	NewConnectionIDFrame = wire.NewConnectionIDFrame
	// A RetireConnectionIDFrame asks the issuer to retire a connection ID.
	RetireConnectionIDFrame = wire.RetireConnectionIDFrame

	// The SendMode says what the transmit path is currently allowed to send.
	SendMode = ackhandler.SendMode
)

const (
	// SendNone means that no packets should be sent
	SendNone = ackhandler.SendNone
	// SendRetransmission means that only retransmissions may be sent
	SendRetransmission = ackhandler.SendRetransmission
	// SendAny means that any packet should be sent
	SendAny = ackhandler.SendAny
)

// MaxIssuedConnectionIDs is the hard ceiling on simultaneously valid
// connection IDs, independent of the limit the peer advertises.
const MaxIssuedConnectionIDs = protocol.MaxIssuedConnectionIDs

// DefaultConnectionIDLength is the connection ID length used when the caller
// doesn't ask for a specific one.
const DefaultConnectionIDLength = protocol.DefaultConnectionIDLength

// GenerateConnectionID generates a random connection ID of the given length.
func GenerateConnectionID(length int) (ConnectionID, error) {
	return protocol.GenerateConnectionID(length)
}

// GenerateStatelessResetToken generates a random stateless reset token.
func GenerateStatelessResetToken() (StatelessResetToken, error) {
	return protocol.GenerateStatelessResetToken()
}
