package benchmarks

import (
	"sync"
	"testing"

	"github.com/xkilldash9x/spingate/barrier"
)

// benchEpisodes measures full barrier episodes: every iteration of b.N is
// one episode crossed by all participants.
func benchEpisodes(b *testing.B, kind barrier.Kind, threads int) {
	group, err := barrier.New(kind, uint32(threads))
	if err != nil {
		b.Fatal(err)
	}

	waiters := make([]barrier.Waiter, threads)
	for i := range waiters {
		waiters[i] = group.Join()
	}

	b.ResetTimer()
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(w barrier.Waiter) {
			defer wg.Done()
			for n := 0; n < b.N; n++ {
				w.Wait()
			}
		}(waiters[i])
	}
	wg.Wait()
}

func BenchmarkCentralized4(b *testing.B)   { benchEpisodes(b, barrier.KindCentralized, 4) }
func BenchmarkCombining4(b *testing.B)     { benchEpisodes(b, barrier.KindCombining, 4) }
func BenchmarkDissemination4(b *testing.B) { benchEpisodes(b, barrier.KindDissemination, 4) }
func BenchmarkTournament4(b *testing.B)    { benchEpisodes(b, barrier.KindTournament, 4) }
func BenchmarkMCS4(b *testing.B)           { benchEpisodes(b, barrier.KindMCS, 4) }

func BenchmarkCentralized8(b *testing.B)   { benchEpisodes(b, barrier.KindCentralized, 8) }
func BenchmarkDissemination8(b *testing.B) { benchEpisodes(b, barrier.KindDissemination, 8) }
func BenchmarkTournament8(b *testing.B)    { benchEpisodes(b, barrier.KindTournament, 8) }
func BenchmarkMCS8(b *testing.B)           { benchEpisodes(b, barrier.KindMCS, 8) }

// condBarrier is the sync.Cond rendezvous most Go code reaches for first;
// it is the baseline the spin barriers are measured against.
type condBarrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	total int
	count int
}

func newCondBarrier(total int) *condBarrier {
	cb := &condBarrier{total: total}
	cb.cond = sync.NewCond(&cb.mu)
	return cb
}

func (cb *condBarrier) Wait() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.count++
	if cb.count == cb.total {
		cb.count = 0
		cb.cond.Broadcast()
	} else {
		cb.cond.Wait()
	}
}

func BenchmarkCondBaseline4(b *testing.B) {
	cb := newCondBarrier(4)

	b.ResetTimer()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < b.N; n++ {
				cb.Wait()
			}
		}()
	}
	wg.Wait()
}
