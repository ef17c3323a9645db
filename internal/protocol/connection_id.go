package protocol

import (
	"bytes"
	"crypto/rand"
	"fmt"
)

// A ConnectionID is an opaque byte sequence an endpoint uses in place of a
// network address to associate packets with a connection.
type ConnectionID []byte

// GenerateConnectionID generates a connection ID of the given length using
// cryptographic randomness.
func GenerateConnectionID(length int) (ConnectionID, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return ConnectionID(b), nil
}

// ParseConnectionID interprets b as a connection ID.
// It copies the byte slice.
func ParseConnectionID(b []byte) ConnectionID {
	c := make(ConnectionID, len(b))
	copy(c, b)
	return c
}

// Equal says if two connection IDs are equal.
func (c ConnectionID) Equal(other ConnectionID) bool {
	return bytes.Equal(c, other)
}

// Len returns the length of the connection ID in bytes.
func (c ConnectionID) Len() int {
	return len(c)
}

// Bytes returns the byte representation.
func (c ConnectionID) Bytes() []byte {
	return []byte(c)
}

func (c ConnectionID) String() string {
	if c.Len() == 0 {
		return "(empty)"
	}
	return fmt.Sprintf("%x", c.Bytes())
}
