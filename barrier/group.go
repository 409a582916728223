// FILENAME: barrier/group.go
package barrier

import (
	"fmt"
	"sync/atomic"
)

// Kind selects a barrier algorithm at runtime.
type Kind int

const (
	KindCentralized Kind = iota
	KindCombining
	KindDissemination
	KindTournament
	KindMCS
)

var kindNames = map[Kind]string{
	KindCentralized:   "centralized",
	KindCombining:     "combining",
	KindDissemination: "dissemination",
	KindTournament:    "tournament",
	KindMCS:           "mcs",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns all algorithms in display order.
func Kinds() []Kind {
	return []Kind{KindCentralized, KindCombining, KindDissemination, KindTournament, KindMCS}
}

// ParseKind maps a name (as printed by Kind.String) back to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("barrier: unknown kind %q", s)
}

// Waiter is one participant's handle on a Group. Wait blocks until every
// participant of the group has called Wait for the current episode. A
// Waiter belongs to a single goroutine.
type Waiter interface {
	Wait()
}

// Group is a runtime-selectable barrier over a fixed set of participants.
// Construct with New, then hand one Waiter from Join to each participant.
type Group struct {
	kind   Kind
	nthr   uint32
	joined uint32

	join func(id uint32) Waiter
}

// New builds a barrier of the given kind for nthr participants.
func New(kind Kind, nthr uint32) (*Group, error) {
	if nthr == 0 {
		return nil, fmt.Errorf("barrier: group needs at least one participant")
	}

	g := &Group{kind: kind, nthr: nthr}
	switch kind {
	case KindCentralized:
		b := new(Centralized)
		g.join = func(uint32) Waiter {
			return &centralizedWaiter{b: b, nthr: nthr}
		}

	case KindCombining:
		b := new(Combining)
		b.Init(new(CombiningGroup))

		// Leaves of two threads each; a lone tail thread gets its
		// own group when nthr is odd.
		nleaves := (nthr + 1) / 2
		leaves := make([]CombiningGroup, nleaves)
		for i := uint32(0); i < nleaves; i++ {
			size := uint32(2)
			if i == nleaves-1 && nthr%2 == 1 {
				size = 1
			}
			b.GroupInit(&leaves[i], size)
		}
		g.join = func(id uint32) Waiter {
			w := &combiningWaiter{b: b, group: &leaves[id/2]}
			b.InitState(&w.st)
			return w
		}

	case KindDissemination:
		b := NewDissemination(nthr)
		g.join = func(uint32) Waiter {
			w := &dissemWaiter{b: b}
			b.InitState(&w.st)
			return w
		}

	case KindTournament:
		b := NewTournament(nthr)
		g.join = func(uint32) Waiter {
			w := &tournamentWaiter{b: b}
			b.InitState(&w.st)
			return w
		}

	case KindMCS:
		b := NewMCS(nthr)
		g.join = func(uint32) Waiter {
			w := &mcsWaiter{b: b}
			b.InitState(&w.st)
			return w
		}

	default:
		return nil, fmt.Errorf("barrier: unknown kind %d", int(kind))
	}

	return g, nil
}

// Kind reports the algorithm backing the group.
func (g *Group) Kind() Kind { return g.kind }

// Participants reports the group size.
func (g *Group) Participants() uint32 { return g.nthr }

// Join claims the next participant slot and returns its Waiter. Join must
// be called exactly Participants times per group; a further call panics,
// since the extra waiter could only deadlock the episode.
func (g *Group) Join() Waiter {
	id := atomic.AddUint32(&g.joined, 1) - 1
	if id >= g.nthr {
		panic(fmt.Sprintf("barrier: Join called more than %d times", g.nthr))
	}
	return g.join(id)
}

type centralizedWaiter struct {
	b    *Centralized
	st   CentralizedState
	nthr uint32
}

func (w *centralizedWaiter) Wait() { w.b.Wait(&w.st, w.nthr) }

type combiningWaiter struct {
	b     *Combining
	group *CombiningGroup
	st    CombiningState
}

func (w *combiningWaiter) Wait() { w.b.Wait(w.group, &w.st) }

type dissemWaiter struct {
	b  *Dissemination
	st DisseminationState
}

func (w *dissemWaiter) Wait() { w.b.Wait(&w.st) }

type tournamentWaiter struct {
	b  *Tournament
	st TournamentState
}

func (w *tournamentWaiter) Wait() { w.b.Wait(&w.st) }

type mcsWaiter struct {
	b  *MCS
	st MCSState
}

func (w *mcsWaiter) Wait() { w.b.Wait(&w.st) }
