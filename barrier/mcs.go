// FILENAME: barrier/mcs.go
package barrier

import (
	"sync/atomic"

	"github.com/xkilldash9x/spingate/internal/spin"
)

// mcsNode is one thread's slot in the MCS barrier: arrival runs up a 4-ary
// tree (childnotready/parent), release runs down a binary tree
// (children/parentsense). dummy absorbs the writes the root and the leaves
// have no real target for. The layout fits one cache line.
type mcsNode struct {
	havechild     [4]uint32 // all-ones where an arrival child exists; constant
	childnotready [4]uint32 // re-armed from havechild by the owner each episode
	parent        *uint32   // slot in the parent's childnotready to clear
	children      [2]*uint32
	parentsense   uint32
	dummy         uint32
}

// MCS is the Mellor-Crummey Scott tree barrier. Each thread spins only on
// words in its own node, so every spin is cache-local.
type MCS struct {
	nthr uint32
	tid  uint32

	nodes []mcsNode
}

// MCSState carries a thread's expected sense and virtual id. Initialize
// with InitState before the first Wait.
type MCSState struct {
	sense uint32
	vpid  uint32
}

// NewMCS builds the arrival and release trees for nthr threads. Node i's
// arrival children are 4i+1..4i+4 (present while 4i+j < nthr-1 for slot j),
// its release children are 2i+1 and 2i+2. nthr must be at least 1.
func NewMCS(nthr uint32) *MCS {
	b := &MCS{
		nthr:  nthr,
		nodes: make([]mcsNode, nthr),
	}

	n := int(nthr)
	for i := 0; i < n; i++ {
		node := &b.nodes[i]
		for j := 0; j < 4; j++ {
			if (i<<2)+j < n-1 {
				node.havechild[j] = ^uint32(0)
			}
			// Absent children start ready so nobody waits on them.
			node.childnotready[j] = node.havechild[j]
		}

		if i == 0 {
			node.parent = &node.dummy
		} else {
			node.parent = &b.nodes[(i-1)>>2].childnotready[(i-1)&3]
		}

		for c := 0; c < 2; c++ {
			child := (i << 1) + 1 + c
			if child >= n {
				node.children[c] = &node.dummy
			} else {
				node.children[c] = &b.nodes[child].parentsense
			}
		}
	}

	return b
}

// InitState claims the next virtual thread id. Call exactly once per
// participating thread.
func (b *MCS) InitState(st *MCSState) {
	st.sense = ^uint32(0)
	st.vpid = atomic.AddUint32(&b.tid, 1) - 1
}

// Wait blocks until all nthr participants have arrived, then releases the
// thread's release-tree children and flips its expected sense.
func (b *MCS) Wait(st *MCSState) {
	node := &b.nodes[st.vpid]

	// Wait for the whole arrival subtree below this node.
	for i := 0; !mcsChildrenReady(&node.childnotready); i++ {
		spin.Stall(i)
	}

	// Re-arm before notifying the parent: once the parent sees this
	// subtree ready it may release the next episode into it.
	for j := range node.childnotready {
		atomic.StoreUint32(&node.childnotready[j], node.havechild[j])
	}
	atomic.StoreUint32(node.parent, 0)

	// The root's arrival is the global arrival; everyone else waits for
	// the release wave.
	if st.vpid != 0 {
		for i := 0; atomic.LoadUint32(&node.parentsense) != st.sense; i++ {
			spin.Stall(i)
		}
	}

	atomic.StoreUint32(node.children[0], st.sense)
	atomic.StoreUint32(node.children[1], st.sense)

	st.sense = ^st.sense
}

func mcsChildrenReady(c *[4]uint32) bool {
	for j := range c {
		if atomic.LoadUint32(&c[j]) != 0 {
			return false
		}
	}
	return true
}
