package wire

const (
	newConnectionIDFrameType    = 0x18
	retireConnectionIDFrameType = 0x19
)

// A Frame in QUIC
type Frame interface {
	Append(b []byte) ([]byte, error)
	Length() int
}
