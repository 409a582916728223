// FILENAME: barrier/dissemination_test.go
package barrier

import (
	"sync/atomic"
	"testing"
)

func TestDisseminationSize(t *testing.T) {
	cases := map[uint32]uint32{
		1:  0,
		2:  2,
		4:  4,
		5:  6,
		8:  6,
		13: 8,
		16: 8,
	}
	for nthr, want := range cases {
		if got := DisseminationSize(nthr); got != want {
			t.Errorf("DisseminationSize(%d) = %d, want %d", nthr, got, want)
		}
	}
}

func TestDisseminationPartnerWiring(t *testing.T) {
	// N=4 takes the power-of-two mask path. Thread 0's round-0 partner
	// is 1, round-1 partner is 2; thread 3 wraps to 0 at round 0.
	b := NewDissemination(4)

	wantPartner := func(i, k, j uint32) {
		t.Helper()
		for parity := 0; parity < 2; parity++ {
			got := b.threads[i].flags[parity][k].pflag
			want := &b.threads[j].flags[parity][k].tflag
			if got != want {
				t.Errorf("thread %d round %d parity %d: wrong partner", i, k, parity)
			}
		}
	}

	wantPartner(0, 0, 1)
	wantPartner(0, 1, 2)
	wantPartner(3, 0, 0)
	wantPartner(3, 1, 1)
}

func TestDisseminationPartnerWiringModulo(t *testing.T) {
	// N=5 exercises the modulo path: (i + 2^k) mod 5.
	b := NewDissemination(5)

	cases := [][3]uint32{
		{0, 0, 1}, {0, 1, 2}, {0, 2, 4},
		{3, 1, 0},
		{4, 0, 0},
		{4, 2, 3},
	}
	for _, c := range cases {
		got := b.threads[c[0]].flags[0][c[1]].pflag
		want := &b.threads[c[2]].flags[0][c[1]].tflag
		if got != want {
			t.Errorf("thread %d round %d: wrong partner, want thread %d", c[0], c[1], c[2])
		}
	}
}

func TestDisseminationEpisodeFlags(t *testing.T) {
	// After one episode every parity-0 flag of every thread holds the
	// initial sense: each thread has signaled and been signaled in every
	// round.
	b := NewDissemination(4)
	states := make([]DisseminationState, 4)
	for i := range states {
		b.InitState(&states[i])
	}

	runParticipants(t, 4, func(id int) {
		b.Wait(&states[id])
	})

	for i := uint32(0); i < 4; i++ {
		for k := uint32(0); k < b.rounds; k++ {
			if got := atomic.LoadUint32(&b.threads[i].flags[0][k].tflag); got != ^uint32(0) {
				t.Errorf("thread %d round %d: tflag = %#x, want all-ones", i, k, got)
			}
		}
	}

	for i := range states {
		if states[i].parity != 1 {
			t.Errorf("thread %d: parity = %d, want 1 after one episode", i, states[i].parity)
		}
		if states[i].sense != ^uint32(0) {
			t.Errorf("thread %d: sense flipped on parity-0 episode", i)
		}
	}
}

func TestDisseminationParitySchedule(t *testing.T) {
	// Parity toggles every episode; the sense inverts only when parity
	// wraps from 1 back to 0, so it returns to its initial value every
	// four episodes.
	b := NewDissemination(2)
	states := make([]DisseminationState, 2)
	for i := range states {
		b.InitState(&states[i])
	}

	episode := func() {
		runParticipants(t, 2, func(id int) {
			b.Wait(&states[id])
		})
	}

	episode()
	episode()
	if states[0].parity != 0 || states[0].sense != 0 {
		t.Fatalf("after 2 episodes: parity=%d sense=%#x, want 0 and 0", states[0].parity, states[0].sense)
	}

	episode()
	episode()
	if states[0].parity != 0 || states[0].sense != ^uint32(0) {
		t.Fatalf("after 4 episodes: parity=%d sense=%#x, want 0 and all-ones", states[0].parity, states[0].sense)
	}
}

func TestDisseminationVirtualIDs(t *testing.T) {
	b := NewDissemination(3)
	var sts [3]DisseminationState
	for i := range sts {
		b.InitState(&sts[i])
	}
	for i := range sts {
		if sts[i].tid != uint32(i) {
			t.Errorf("state %d: tid = %d", i, sts[i].tid)
		}
	}
}

func TestDisseminationSingleThread(t *testing.T) {
	// Zero rounds: wait is a pure state update.
	b := NewDissemination(1)
	var st DisseminationState
	b.InitState(&st)
	for episode := 0; episode < 4; episode++ {
		b.Wait(&st)
	}
	if st.parity != 0 || st.sense != ^uint32(0) {
		t.Fatalf("parity=%d sense=%#x after 4 episodes", st.parity, st.sense)
	}
}
