package connid

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/quicfoundry/connid/internal/protocol"
	"github.com/quicfoundry/connid/internal/utils"
)

// deleteClosedEntriesAfter is how long an entry removed with RemoveLater
// keeps dispatching to its (closed) connection, so late packets still reach
// the state that knows how to answer them.
const deleteClosedEntriesAfter = 5 * time.Second

// A HandlerMap maps connection IDs to the connection owning them. It is the
// one structure shared between all connections of an endpoint: incoming
// packets are dispatched through it, and every Registry inserts and removes
// its connection IDs here. All operations are atomic with respect to each
// other.
type HandlerMap struct {
	mutex sync.Mutex

	handlers map[string] /* string(ConnectionID) */ any
	closed   bool

	clock  clock.Clock
	logger utils.Logger
}

// NewHandlerMap creates a new HandlerMap.
func NewHandlerMap(logger utils.Logger) *HandlerMap {
	return newHandlerMapWithClock(logger, clock.New())
}

func newHandlerMapWithClock(logger utils.Logger, cl clock.Clock) *HandlerMap {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	return &HandlerMap{
		handlers: make(map[string]any),
		clock:    cl,
		logger:   logger,
	}
}

// Get returns the handler a connection ID maps to.
func (h *HandlerMap) Get(id protocol.ConnectionID) (any, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	handler, ok := h.handlers[string(id)]
	return handler, ok
}

// TryAdd inserts a connection ID for the given handler.
// It reports whether the insert succeeded; it fails if the connection ID is
// already mapped (to any handler), leaving the existing entry untouched.
func (h *HandlerMap) TryAdd(id protocol.ConnectionID, handler any) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return false
	}
	if _, ok := h.handlers[string(id)]; ok {
		return false
	}
	h.handlers[string(id)] = handler
	h.logger.Debugf("Added connection ID %s to the handler map", id)
	return true
}

// Remove removes a connection ID immediately.
func (h *HandlerMap) Remove(id protocol.ConnectionID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.handlers, string(id))
	h.logger.Debugf("Removed connection ID %s from the handler map", id)
}

// RemoveLater rebinds a connection ID to the given (usually closed) handler
// and deletes the entry once late packets can no longer be expected.
func (h *HandlerMap) RemoveLater(id protocol.ConnectionID, handler any) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return
	}
	h.handlers[string(id)] = handler
	h.clock.AfterFunc(deleteClosedEntriesAfter, func() {
		h.mutex.Lock()
		defer h.mutex.Unlock()
		if h.handlers[string(id)] != nil && h.handlers[string(id)] != handler {
			// the connection ID was reused in the meantime
			return
		}
		delete(h.handlers, string(id))
	})
}

// Len returns the number of mapped connection IDs.
func (h *HandlerMap) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.handlers)
}

// Close prevents further inserts. Existing entries stay readable so
// connections can still tear down through their registries.
func (h *HandlerMap) Close() {
	h.mutex.Lock()
	h.closed = true
	h.mutex.Unlock()
}
