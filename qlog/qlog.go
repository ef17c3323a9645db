// Package qlog emits connection ID lifecycle events in a qlog-style
// JSON text sequence, one record per line.
package qlog

import (
	"io"
	"time"

	"github.com/francoispqt/gojay"

	"github.com/quicfoundry/connid/internal/utils"
	"github.com/quicfoundry/connid/logging"
)

type tracer struct {
	w             io.WriteCloser
	referenceTime time.Time
	logger        utils.Logger

	encodeErr error
}

// NewConnectionTracer creates a tracer writing qlog connectivity events to w.
// The caller must call Close on the returned closer once the traced
// connection is torn down. Encoding errors are sticky: the first one stops
// all further output and is logged on Close.
func NewConnectionTracer(w io.WriteCloser, logger utils.Logger) (*logging.ConnectionTracer, io.Closer) {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	t := &tracer{
		w:             w,
		referenceTime: time.Now(),
		logger:        logger,
	}
	return &logging.ConnectionTracer{
		IssuedConnectionID: func(seq uint64, connID logging.ConnectionID) {
			t.recordEvent(eventConnectionIDIssued{SequenceNumber: seq, ConnectionID: connID.String()})
		},
		RetiredConnectionID: func(seq uint64, connID logging.ConnectionID) {
			t.recordEvent(eventConnectionIDRetired{SequenceNumber: seq, ConnectionID: connID.String()})
		},
		RemovedConnectionID: func(seq uint64, connID logging.ConnectionID) {
			t.recordEvent(eventConnectionIDRemoved{SequenceNumber: seq, ConnectionID: connID.String()})
		},
	}, t
}

func (t *tracer) recordEvent(details eventDetails) {
	if t.encodeErr != nil {
		return
	}
	ev := event{
		RelativeTime: time.Since(t.referenceTime),
		eventDetails: details,
	}
	if err := gojay.NewEncoder(t.w).EncodeObject(ev); err != nil {
		t.encodeErr = err
		return
	}
	if _, err := t.w.Write([]byte{'\n'}); err != nil {
		t.encodeErr = err
	}
}

func (t *tracer) Close() error {
	if t.encodeErr != nil {
		t.logger.Errorf("Encoding qlog events failed: %s", t.encodeErr)
	}
	return t.w.Close()
}
