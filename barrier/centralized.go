// FILENAME: barrier/centralized.go
package barrier

import (
	"sync/atomic"

	"github.com/xkilldash9x/spingate/internal/spin"
)

// Centralized is a counting barrier with sense reversal: every arrival
// increments one shared counter, and the last arrival resets the counter and
// flips the shared sense, releasing everyone spinning on it.
//
// The zero value is ready for use. The counter and the sense live on
// separate cache lines so arrivals incrementing the counter do not steal the
// line the waiters are spinning on.
type Centralized struct {
	value uint32
	_     [cacheLine - 4]byte
	sense uint32
	_     [cacheLine - 4]byte
}

// CentralizedState is the per-participant expected sense. The zero value is
// ready for use. A state must belong to exactly one participant of exactly
// one barrier.
type CentralizedState struct {
	sense uint32
}

// Wait blocks until all nthr participants have called Wait for the current
// episode. nthr must be the same for every participant and every episode.
func (b *Centralized) Wait(st *CentralizedState, nthr uint32) {
	st.sense = ^st.sense
	sense := st.sense

	if atomic.AddUint32(&b.value, 1) == nthr {
		// Last arrival: re-arm the counter before publishing the new
		// sense, so the next episode never observes a stale count.
		atomic.StoreUint32(&b.value, 0)
		atomic.StoreUint32(&b.sense, sense)
		return
	}

	for i := 0; atomic.LoadUint32(&b.sense) != sense; i++ {
		spin.Stall(i)
	}
}
