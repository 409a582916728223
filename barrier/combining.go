// FILENAME: barrier/combining.go
package barrier

import (
	"sync/atomic"

	"github.com/xkilldash9x/spingate/internal/spin"
)

// CombiningGroup is one node of a software combining tree. A leaf group
// represents a set of threads that arrive together as one logical
// participant; interior nodes accumulate one arrival per child subtree plus
// any threads registered on them directly.
type CombiningGroup struct {
	k     uint32 // arrivals expected at this node
	count uint32 // arrivals so far this episode
	sense uint32 // release flag, inverted in place each episode

	parent *CombiningGroup
	lchild *CombiningGroup
	rchild *CombiningGroup

	// next threads the registration queue. Only touched while the tree
	// lock is held; dead once it is released.
	next *CombiningGroup
}

// Combining is a software combining tree barrier. Registration walks the
// tree in level order under a spinlock; the wait path is lock-free and each
// non-last thread only ever touches its home group's words.
type Combining struct {
	mu   Spinlock
	root *CombiningGroup
}

// CombiningState is the per-thread expected sense. Initialize with
// InitState before the first Wait.
type CombiningState struct {
	sense uint32
}

// Init seeds the tree with its root group. The seed expects no direct
// arrivals; its expected-arrival count k grows as groups register beneath it.
func (b *Combining) Init(seed *CombiningGroup) {
	seed.k = 0
	seed.count = 0
	seed.sense = 0
	seed.parent = nil
	seed.lchild = nil
	seed.rchild = nil
	b.root = seed
}

// InitState prepares a per-thread state. The expected sense starts at
// all-ones: group senses start at zero and flip to all-ones when the first
// episode completes.
func (b *Combining) InitState(st *CombiningState) {
	st.sense = ^uint32(0)
}

// combiningQueue is the scratch FIFO for the level-order insertion scan.
// It links through the groups' own next fields, so it needs no allocation.
type combiningQueue struct {
	head *CombiningGroup
	tail *CombiningGroup
}

func (q *combiningQueue) enqueue(g *CombiningGroup) {
	g.next = nil
	if q.head == nil {
		q.head = g
		q.tail = g
		return
	}
	q.tail.next = g
	q.tail = g
}

func (q *combiningQueue) dequeue() *CombiningGroup {
	front := q.head
	if front != nil {
		q.head = front.next
	}
	return front
}

// tryInsert attaches g under parent if a child slot is free. The parent's
// expected-arrival count grows by one for the new subtree; without that the
// barrier would release before the subtree reports in.
func (parent *CombiningGroup) tryInsert(g *CombiningGroup) bool {
	if parent.lchild == nil {
		parent.lchild = g
		g.parent = parent
		parent.k++
		return true
	}
	if parent.rchild == nil {
		parent.rchild = g
		g.parent = parent
		parent.k++
		return true
	}
	return false
}

// GroupInit registers a new leaf group representing nthr threads that will
// arrive together. The first node found in a level-order scan from the root
// with a free child slot becomes its parent. Registration must not overlap
// an episode in flight.
func (b *Combining) GroupInit(g *CombiningGroup, nthr uint32) {
	g.k = nthr
	g.count = 0
	g.sense = 0
	g.lchild = nil
	g.rchild = nil

	// The lock keeps concurrent registrations from overwriting the same
	// child slot; plain stores suffice beneath it.
	b.mu.Lock()
	var queue combiningQueue
	queue.enqueue(b.root)
	for {
		node := queue.dequeue()
		if node.tryInsert(g) {
			break
		}
		// Both slots taken: descend. A full node always has two
		// children, so the scan never runs dry.
		queue.enqueue(node.lchild)
		queue.enqueue(node.rchild)
	}
	b.mu.Unlock()
}

// Wait blocks until every registered thread has arrived for the current
// episode, then flips the thread's expected sense for the next one.
func (b *Combining) Wait(g *CombiningGroup, st *CombiningState) {
	b.arrive(g, st.sense)
	st.sense = ^st.sense
}

// arrive performs the arrival protocol at node t. The last thread into a
// node climbs to the parent before releasing the node, so the release
// cascades from the root back down the arrival path.
func (b *Combining) arrive(t *CombiningGroup, sense uint32) {
	if atomic.AddUint32(&t.count, 1) == t.k {
		if t.parent != nil {
			b.arrive(t.parent, sense)
		}
		atomic.StoreUint32(&t.count, 0)
		atomic.StoreUint32(&t.sense, ^atomic.LoadUint32(&t.sense))
		return
	}

	for i := 0; atomic.LoadUint32(&t.sense) != sense; i++ {
		spin.Stall(i)
	}
}
