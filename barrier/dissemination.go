// FILENAME: barrier/dissemination.go
package barrier

import (
	"sync/atomic"

	"github.com/xkilldash9x/spingate/internal/spin"
)

// dissemFlag is one signaling slot: tflag is the word other threads set on
// this thread, pflag points at the partner's tflag for the same round.
type dissemFlag struct {
	tflag uint32
	pflag *uint32
}

// dissemThread holds one thread's flag rows, one per parity. Two
// independent rows alternate between episodes so a fast thread entering the
// next episode cannot clobber a flag a slow thread is still watching.
type dissemThread struct {
	flags [2][]dissemFlag
}

// Dissemination is a dissemination barrier: ceil(log2 N) rounds of pairwise
// signaling in which thread i signals thread (i + 2^k) mod N and waits to be
// signaled itself. No thread ever spins on a shared hotspot.
type Dissemination struct {
	nthr   uint32
	rounds uint32
	tid    uint32 // next virtual thread id, claimed by InitState

	threads []dissemThread
}

// DisseminationState carries a thread's parity, expected sense, and virtual
// id. Initialize with InitState before the first Wait.
type DisseminationState struct {
	parity uint32
	sense  uint32
	tid    uint32
}

// DisseminationSize reports how many flag slots each thread needs across
// both parities for an nthr-thread barrier.
func DisseminationSize(nthr uint32) uint32 {
	return log2floor(nextPow2(nthr)) * 2
}

// NewDissemination builds the topology for nthr threads: a flat flag arena
// sliced into per-thread, per-parity rows, with every slot wired to its
// round-k partner. nthr must be at least 1.
func NewDissemination(nthr uint32) *Dissemination {
	rounds := log2floor(nextPow2(nthr))
	b := &Dissemination{
		nthr:    nthr,
		rounds:  rounds,
		threads: make([]dissemThread, nthr),
	}

	arena := make([]dissemFlag, uint64(nthr)*uint64(rounds)*2)
	for i := uint32(0); i < nthr; i++ {
		base := uint64(i) * uint64(rounds) * 2
		b.threads[i].flags[0] = arena[base : base+uint64(rounds)]
		b.threads[i].flags[1] = arena[base+uint64(rounds) : base+2*uint64(rounds)]
	}

	for i := uint32(0); i < nthr; i++ {
		offset := uint32(1)
		for k := uint32(0); k < rounds; k++ {
			// Power-of-two thread counts take the mask path.
			var j uint32
			if nthr&(nthr-1) == 0 {
				j = (i + offset) & (nthr - 1)
			} else {
				j = (i + offset) % nthr
			}

			b.threads[i].flags[0][k].pflag = &b.threads[j].flags[0][k].tflag
			b.threads[i].flags[1][k].pflag = &b.threads[j].flags[1][k].tflag
			offset <<= 1
		}
	}

	return b
}

// InitState claims the next virtual thread id and resets parity and sense.
// Call exactly once per participating thread.
func (b *Dissemination) InitState(st *DisseminationState) {
	st.parity = 0
	st.sense = ^uint32(0)
	st.tid = atomic.AddUint32(&b.tid, 1) - 1
}

// Wait runs the log2(N) signaling rounds for the current episode. The sense
// inverts every second episode: each parity owns an independent flag row, so
// one sense value per row pair is enough.
func (b *Dissemination) Wait(st *DisseminationState) {
	row := b.threads[st.tid].flags[st.parity]
	for k := range row {
		atomic.StoreUint32(row[k].pflag, st.sense)

		for i := 0; atomic.LoadUint32(&row[k].tflag) != st.sense; i++ {
			spin.Stall(i)
		}
	}

	if st.parity == 1 {
		st.sense = ^st.sense
	}
	st.parity = 1 - st.parity
}
