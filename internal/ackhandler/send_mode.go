package ackhandler

import "fmt"

// The SendMode says what the congestion and loss-recovery logic allows the
// transmit path to send right now.
type SendMode uint8

const (
	// SendNone means that no packets should be sent
	SendNone SendMode = iota
	// SendRetransmission means that only retransmissions may be sent
	SendRetransmission
	// SendAny means that any packet should be sent
	SendAny
)

func (s SendMode) String() string {
	switch s {
	case SendNone:
		return "none"
	case SendRetransmission:
		return "retransmission"
	case SendAny:
		return "any"
	default:
		return fmt.Sprintf("invalid send mode: %d", s)
	}
}
