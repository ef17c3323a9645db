package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ParseNext parses the next connection ID frame from r.
// It returns nil (and no error) when r is drained.
func ParseNext(r *bytes.Reader) (Frame, error) {
	typ, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	switch typ {
	case newConnectionIDFrameType:
		return parseNewConnectionIDFrame(r)
	case retireConnectionIDFrameType:
		return parseRetireConnectionIDFrame(r)
	default:
		return nil, fmt.Errorf("unknown frame type: %#x", typ)
	}
}

func replaceUnexpectedEOF(e error) error {
	if e == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return e
}
