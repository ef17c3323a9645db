package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/quic-go/quic-go/quicvarint"
	"github.com/stretchr/testify/require"

	"github.com/quicfoundry/connid/internal/protocol"
)

func TestParseNewConnectionIDFrame(t *testing.T) {
	data := quicvarint.Append(nil, 0xdeadbeef)                          // sequence number
	data = quicvarint.Append(data, 0xcafe)                              // retire prior to
	data = append(data, 10)                                             // connection ID length
	data = append(data, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}...)      // connection ID
	data = append(data, []byte("deadbeefdecafbad")...)                 // stateless reset token
	frame, err := parseNewConnectionIDFrame(bytes.NewReader(data))
	require.NoError(t, err)
	require.EqualValues(t, 0xdeadbeef, frame.SequenceNumber)
	require.EqualValues(t, 0xcafe, frame.RetirePriorTo)
	require.Equal(t, protocol.ConnectionID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, frame.ConnectionID)
	require.Equal(t, "deadbeefdecafbad", string(frame.StatelessResetToken[:]))
}

func TestParseNewConnectionIDFrameRetirePriorTo(t *testing.T) {
	data := quicvarint.Append(nil, 10) // sequence number
	data = quicvarint.Append(data, 11) // retire prior to
	data = append(data, 3)
	data = append(data, []byte{1, 2, 3}...)
	data = append(data, []byte("deadbeefdecafbad")...)
	_, err := parseNewConnectionIDFrame(bytes.NewReader(data))
	require.EqualError(t, err, "Retire Prior To value (11) larger than Sequence Number (10)")
}

func TestParseNewConnectionIDFrameZeroLengthConnID(t *testing.T) {
	data := quicvarint.Append(nil, 42) // sequence number
	data = quicvarint.Append(data, 12) // retire prior to
	data = append(data, 0)             // connection ID length
	data = append(data, []byte("deadbeefdecafbad")...)
	_, err := parseNewConnectionIDFrame(bytes.NewReader(data))
	require.EqualError(t, err, "invalid zero-length connection ID")
}

func TestParseNewConnectionIDFrameInvalidConnIDLength(t *testing.T) {
	data := quicvarint.Append(nil, 0xdeadbeef) // sequence number
	data = quicvarint.Append(data, 0xcafe)     // retire prior to
	data = append(data, 21)                    // connection ID length
	data = append(data, bytes.Repeat([]byte{42}, 21)...)
	data = append(data, []byte("deadbeefdecafbad")...)
	_, err := parseNewConnectionIDFrame(bytes.NewReader(data))
	require.EqualError(t, err, "invalid connection ID length: 21")
}

func TestParseNewConnectionIDFrameEOFs(t *testing.T) {
	data := quicvarint.Append(nil, 0xdeadbeef)
	data = quicvarint.Append(data, 0xcafe)
	data = append(data, 10)
	data = append(data, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}...)
	data = append(data, []byte("deadbeefdecafbad")...)
	_, err := parseNewConnectionIDFrame(bytes.NewReader(data))
	require.NoError(t, err)
	for i := range data {
		_, err := parseNewConnectionIDFrame(bytes.NewReader(data[:i]))
		require.Equal(t, io.EOF, err)
	}
}

func TestWriteNewConnectionIDFrame(t *testing.T) {
	token := protocol.StatelessResetToken{0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f}
	frame := &NewConnectionIDFrame{
		SequenceNumber:      0x1337,
		RetirePriorTo:       0x42,
		ConnectionID:        protocol.ConnectionID{1, 2, 3, 4, 5, 6},
		StatelessResetToken: token,
	}
	b, err := frame.Append(nil)
	require.NoError(t, err)
	expected := []byte{newConnectionIDFrameType}
	expected = quicvarint.Append(expected, 0x1337)
	expected = quicvarint.Append(expected, 0x42)
	expected = append(expected, 6)
	expected = append(expected, []byte{1, 2, 3, 4, 5, 6}...)
	expected = append(expected, token[:]...)
	require.Equal(t, expected, b)
	require.Len(t, b, frame.Length())
}
