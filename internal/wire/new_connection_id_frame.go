package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"

	"github.com/quicfoundry/connid/internal/protocol"
)

// A NewConnectionIDFrame is a NEW_CONNECTION_ID frame
type NewConnectionIDFrame struct {
	SequenceNumber      uint64
	RetirePriorTo       uint64
	ConnectionID        protocol.ConnectionID
	StatelessResetToken protocol.StatelessResetToken
}

func parseNewConnectionIDFrame(r *bytes.Reader) (*NewConnectionIDFrame, error) {
	frame := &NewConnectionIDFrame{}

	var err error
	frame.SequenceNumber, err = quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	frame.RetirePriorTo, err = quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	if frame.RetirePriorTo > frame.SequenceNumber {
		return nil, fmt.Errorf("Retire Prior To value (%d) larger than Sequence Number (%d)", frame.RetirePriorTo, frame.SequenceNumber)
	}
	connIDLen, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if connIDLen == 0 {
		return nil, fmt.Errorf("invalid zero-length connection ID")
	}
	if int(connIDLen) > protocol.MaxConnectionIDLen {
		return nil, fmt.Errorf("invalid connection ID length: %d", connIDLen)
	}
	frame.ConnectionID = make(protocol.ConnectionID, connIDLen)
	if _, err := io.ReadFull(r, frame.ConnectionID); err != nil {
		return nil, replaceUnexpectedEOF(err)
	}
	if _, err := io.ReadFull(r, frame.StatelessResetToken[:]); err != nil {
		return nil, replaceUnexpectedEOF(err)
	}
	return frame, nil
}

// Append appends a NEW_CONNECTION_ID frame.
func (f *NewConnectionIDFrame) Append(b []byte) ([]byte, error) {
	b = append(b, newConnectionIDFrameType)
	b = quicvarint.Append(b, f.SequenceNumber)
	b = quicvarint.Append(b, f.RetirePriorTo)
	connIDLen := f.ConnectionID.Len()
	if connIDLen > protocol.MaxConnectionIDLen {
		return nil, fmt.Errorf("invalid connection ID length: %d", connIDLen)
	}
	b = append(b, uint8(connIDLen))
	b = append(b, f.ConnectionID.Bytes()...)
	b = append(b, f.StatelessResetToken[:]...)
	return b, nil
}

// Length of a written frame
func (f *NewConnectionIDFrame) Length() int {
	return 1 + quicvarint.Len(f.SequenceNumber) + quicvarint.Len(f.RetirePriorTo) + 1 + f.ConnectionID.Len() + len(f.StatelessResetToken)
}
