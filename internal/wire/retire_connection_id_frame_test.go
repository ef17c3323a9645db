package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/quic-go/quic-go/quicvarint"
	"github.com/stretchr/testify/require"
)

func TestParseRetireConnectionIDFrame(t *testing.T) {
	data := quicvarint.Append(nil, 0xdeadbeef) // sequence number
	frame, err := parseRetireConnectionIDFrame(bytes.NewReader(data))
	require.NoError(t, err)
	require.EqualValues(t, 0xdeadbeef, frame.SequenceNumber)
}

func TestParseRetireConnectionIDFrameEOF(t *testing.T) {
	data := quicvarint.Append(nil, 0xdeadbeef)
	for i := range data {
		_, err := parseRetireConnectionIDFrame(bytes.NewReader(data[:i]))
		require.Equal(t, io.EOF, err)
	}
}

func TestWriteRetireConnectionIDFrame(t *testing.T) {
	frame := &RetireConnectionIDFrame{SequenceNumber: 0x1337}
	b, err := frame.Append(nil)
	require.NoError(t, err)
	expected := []byte{retireConnectionIDFrameType}
	expected = quicvarint.Append(expected, 0x1337)
	require.Equal(t, expected, b)
	require.Len(t, b, frame.Length())
}
