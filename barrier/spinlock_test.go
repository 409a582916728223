// FILENAME: barrier/spinlock_test.go
package barrier

import "testing"

func TestSpinlockMutualExclusion(t *testing.T) {
	var l Spinlock
	counter := 0

	runParticipants(t, 8, func(int) {
		for i := 0; i < 1_000; i++ {
			l.Lock()
			counter++
			l.Unlock()
		}
	})

	if counter != 8_000 {
		t.Fatalf("counter = %d, want 8000: lost updates under the lock", counter)
	}
}

func TestSpinlockZeroValueUnlocked(t *testing.T) {
	var l Spinlock
	l.Lock()
	l.Unlock()
	l.Lock()
	l.Unlock()
}
