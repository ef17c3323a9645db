package protocol

// MaxConnectionIDLen is the maximum length of the connection ID, in bytes.
const MaxConnectionIDLen = 20

// DefaultConnectionIDLength is the connection ID length used when the
// application doesn't ask for a specific one.
const DefaultConnectionIDLength = 8

// MaxIssuedConnectionIDs is the maximum number of connection IDs we keep
// issued to the peer at any time, regardless of the limit the peer
// advertises. It bounds the per-connection state in the handler map.
const MaxIssuedConnectionIDs = 3
