// FILENAME: internal/spin/spin.go
package spin

import "runtime"

// yieldEvery bounds how long a spin loop can monopolize a P before handing
// it back to the scheduler. Must be a power of two; the check compiles to a
// single mask.
const yieldEvery = 1024

// Stall is the pause hint placed in every spin-wait loop. Go has no portable
// PAUSE instruction, so the hint is a periodic runtime.Gosched: the loop
// stays hot for yieldEvery iterations, then yields so that waiters stacked
// on the same P (more goroutines than cores) cannot livelock each other.
//
// Callers pass their loop counter; the first yield lands after a full burst
// of iterations, keeping the release latency of a short wait untouched.
func Stall(i int) {
	if i&(yieldEvery-1) == yieldEvery-1 {
		runtime.Gosched()
	}
}
