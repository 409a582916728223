// FILENAME: barrier/spinlock.go
package barrier

import (
	"sync/atomic"

	"github.com/xkilldash9x/spingate/internal/spin"
)

// Spinlock is a test-and-set spinlock. The zero value is unlocked. It makes
// no fairness promise; it exists to serialize combining-tree registration,
// which is rare and short. It is not used anywhere on a wait path.
type Spinlock struct {
	state uint32
}

// Lock spins until the lock is acquired.
func (l *Spinlock) Lock() {
	for i := 0; atomic.SwapUint32(&l.state, 1) != 0; i++ {
		spin.Stall(i)
	}
}

// Unlock releases the lock. Calling Unlock on an unlocked Spinlock leaves it
// unlocked.
func (l *Spinlock) Unlock() {
	atomic.StoreUint32(&l.state, 0)
}
