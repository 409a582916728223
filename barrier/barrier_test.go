// FILENAME: barrier/barrier_test.go
package barrier

import (
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/spingate/internal/config"
)

// runParticipants spawns one goroutine per participant and fails the test if
// they do not all return within the deadlock budget.
func runParticipants(t *testing.T, n int, body func(id int)) {
	t.Helper()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			body(id)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(config.DeadlockTimeout):
		t.Fatalf("deadlock: %d participants did not return", n)
	}
}
