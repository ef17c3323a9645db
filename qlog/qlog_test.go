package qlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicfoundry/connid/logging"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func TestTracerWritesEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	tracer, closer := NewConnectionTracer(nopWriteCloser{buf}, nil)

	connID := logging.ConnectionID{0xde, 0xad, 0xbe, 0xef}
	tracer.IssuedConnectionID(1, connID)
	tracer.RetiredConnectionID(1, connID)
	tracer.RemovedConnectionID(1, connID)
	require.NoError(t, closer.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	names := []string{
		"connectivity:connection_id_issued",
		"connectivity:connection_id_retired",
		"connectivity:connection_id_removed",
	}
	for i, line := range lines {
		var ev struct {
			Time float64 `json:"time"`
			Name string  `json:"name"`
			Data struct {
				SequenceNumber uint64 `json:"sequence_number"`
				ConnectionID   string `json:"connection_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		require.Equal(t, names[i], ev.Name)
		require.EqualValues(t, 1, ev.Data.SequenceNumber)
		require.Equal(t, "deadbeef", ev.Data.ConnectionID)
	}
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write(p []byte) (int, error) { w.calls++; return 0, errors.New("write failed") }
func (w *failingWriter) Close() error                { return nil }

func TestTracerStopsOnEncodeError(t *testing.T) {
	w := &failingWriter{}
	tracer, closer := NewConnectionTracer(w, nil)
	tracer.IssuedConnectionID(0, logging.ConnectionID{1})
	calls := w.calls
	tracer.IssuedConnectionID(1, logging.ConnectionID{2})
	require.Equal(t, calls, w.calls) // no further writes after the first error
	require.NoError(t, closer.Close())
}
