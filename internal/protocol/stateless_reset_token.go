package protocol

import (
	"crypto/rand"
	"fmt"
)

// A StatelessResetToken is a secret an endpoint hands to its peer together
// with a connection ID. Presenting the token later proves that the endpoint
// lost its connection state, so the peer can distinguish a legitimate
// stateless reset from an off-path attack.
type StatelessResetToken [16]byte

// GenerateStatelessResetToken generates a random stateless reset token.
func GenerateStatelessResetToken() (StatelessResetToken, error) {
	var token StatelessResetToken
	if _, err := rand.Read(token[:]); err != nil {
		return StatelessResetToken{}, err
	}
	return token, nil
}

// IsZero says if the token consists of all zero bytes.
// A zeroed token is one that was discarded after the peer acknowledged it.
func (t StatelessResetToken) IsZero() bool {
	return t == StatelessResetToken{}
}

func (t StatelessResetToken) String() string {
	return fmt.Sprintf("%x", t[:])
}
