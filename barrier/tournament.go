// FILENAME: barrier/tournament.go
package barrier

import (
	"sync/atomic"

	"github.com/xkilldash9x/spingate/internal/spin"
)

// Tournament roles. Roles are fixed at topology build time, so the wait
// path carries no coordination overhead at all: every thread spins only on
// its own flag.
type tournamentRole uint32

const (
	// roleBye doubles as the zero value; slots no thread ever visits
	// stay byes, which the wait loops skip over.
	roleBye tournamentRole = iota
	roleChampion
	roleDropout
	roleLoser
	roleWinner
)

// tournamentRound is one (thread, round) slot: the statically assigned
// role, the flag other threads set on this slot, and the opponent's flag.
type tournamentRound struct {
	role     tournamentRole
	flag     uint32
	opponent *uint32
}

// Tournament is a tournament barrier. Threads pair off in rounds; losers
// spin at their loss round, winners advance, and the single champion starts
// the wakeup cascade back down.
type Tournament struct {
	nthr uint32
	size uint32
	tid  uint32

	rounds [][]tournamentRound
}

// TournamentState carries a thread's expected sense and virtual id.
// Initialize with InitState before the first Wait.
type TournamentState struct {
	sense uint32
	vpid  uint32
}

// TournamentSize reports the number of rounds, including the round-0 home
// row, for an nthr-thread barrier.
func TournamentSize(nthr uint32) uint32 {
	return log2floor(nextPow2(nthr)) + 1
}

// NewTournament builds the static role table for nthr threads. nthr must be
// at least 1.
func NewTournament(nthr uint32) *Tournament {
	size := TournamentSize(nthr)
	b := &Tournament{
		nthr:   nthr,
		size:   size,
		rounds: make([][]tournamentRound, nthr),
	}
	for i := range b.rounds {
		b.rounds[i] = make([]tournamentRound, size)
	}

	for i := uint32(0); i < nthr; i++ {
		// Round 0 is the home row every thread terminates on during
		// wakeup.
		b.rounds[i][0].role = roleDropout

		twok, twokm1 := uint32(2), uint32(1)
		for k := uint32(1); k < size; k++ {
			slot := &b.rounds[i][k]
			imod := i & (twok - 1)

			if imod == 0 {
				switch {
				case i+twokm1 < nthr && twok < nthr:
					slot.role = roleWinner
				case i+twokm1 >= nthr:
					// Incomplete pair: pass through.
					slot.role = roleBye
				}
			}
			if imod == twokm1 {
				slot.role = roleLoser
			} else if i == 0 && twok >= nthr {
				// Thread 0 at the final round. Overrides a bye
				// when the bracket is not full.
				slot.role = roleChampion
			}

			switch slot.role {
			case roleLoser:
				slot.opponent = &b.rounds[i-twokm1][k].flag
			case roleWinner, roleChampion:
				slot.opponent = &b.rounds[i+twokm1][k].flag
			}

			twokm1 = twok
			twok <<= 1
		}
	}

	return b
}

// InitState claims the next virtual thread id. Call exactly once per
// participating thread.
func (b *Tournament) InitState(st *TournamentState) {
	st.sense = ^uint32(0)
	st.vpid = atomic.AddUint32(&b.tid, 1) - 1
}

// Wait runs the arrival pass up the bracket and the wakeup pass back down,
// then flips the thread's expected sense.
func (b *Tournament) Wait(st *TournamentState) {
	if b.nthr == 1 {
		// A one-thread bracket has no round 1 to play.
		st.sense = ^st.sense
		return
	}

	rounds := b.rounds[st.vpid]
	round := 1

arrival:
	for ; ; round++ {
		r := &rounds[round]
		switch r.role {
		case roleBye:
			// Pass.
		case roleWinner:
			// Wait for the opponent's loss notice, then advance.
			for i := 0; atomic.LoadUint32(&r.flag) != st.sense; i++ {
				spin.Stall(i)
			}
		case roleLoser:
			// Notify the opponent, then park here until the
			// winner comes back through on wakeup.
			atomic.StoreUint32(r.opponent, st.sense)
			for i := 0; atomic.LoadUint32(&r.flag) != st.sense; i++ {
				spin.Stall(i)
			}
			break arrival
		case roleChampion:
			// The tournament is won; fire the first wakeup flag.
			for i := 0; atomic.LoadUint32(&r.flag) != st.sense; i++ {
				spin.Stall(i)
			}
			atomic.StoreUint32(r.opponent, st.sense)
			break arrival
		}
	}

	for round--; ; round-- {
		r := &rounds[round]
		switch r.role {
		case roleDropout:
			st.sense = ^st.sense
			return
		case roleWinner:
			// Release the opponent beaten at this round.
			atomic.StoreUint32(r.opponent, st.sense)
		}
	}
}
