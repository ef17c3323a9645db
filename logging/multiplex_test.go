package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMultiplexedConnectionTracer(t *testing.T) {
	t.Run("zero tracers", func(t *testing.T) {
		require.Nil(t, NewMultiplexedConnectionTracer())
	})

	t.Run("one tracer", func(t *testing.T) {
		tr := &ConnectionTracer{}
		require.Same(t, tr, NewMultiplexedConnectionTracer(tr))
	})

	t.Run("two tracers", func(t *testing.T) {
		var events1, events2 []string
		tr1 := &ConnectionTracer{
			IssuedConnectionID:  func(uint64, ConnectionID) { events1 = append(events1, "issued") },
			RetiredConnectionID: func(uint64, ConnectionID) { events1 = append(events1, "retired") },
			RemovedConnectionID: func(uint64, ConnectionID) { events1 = append(events1, "removed") },
			UpdatedTimer:        func(time.Time) { events1 = append(events1, "timer") },
		}
		// tr2 only cares about removals
		tr2 := &ConnectionTracer{
			RemovedConnectionID: func(uint64, ConnectionID) { events2 = append(events2, "removed") },
		}
		tr := NewMultiplexedConnectionTracer(tr1, tr2)
		tr.IssuedConnectionID(0, ConnectionID{1})
		tr.RetiredConnectionID(0, ConnectionID{1})
		tr.RemovedConnectionID(0, ConnectionID{1})
		tr.UpdatedTimer(time.Now())
		require.Equal(t, []string{"issued", "retired", "removed", "timer"}, events1)
		require.Equal(t, []string{"removed"}, events2)
	})
}
