// FILENAME: barrier/doc.go

// Package barrier provides busy-wait thread barriers for parallel code where
// the barrier itself must not become the bottleneck: numerical kernels,
// parallel runtimes, benchmark harnesses.
//
// Five algorithms are provided, each with a different trade-off between bus
// traffic, spin locality, and arrival/wakeup latency:
//
//   - Centralized: a single shared counter and sense flag. Cheapest to set
//     up, heaviest cache-line contention.
//   - Combining: a software combining tree. Thread groups register as leaves
//     and the last arrival of each group represents it one level up.
//   - Dissemination: O(log N) pairwise signaling rounds with no central
//     hotspot.
//   - Tournament: statically assigned per-round roles; every thread spins
//     only on its own flag.
//   - MCS: a 4-ary arrival tree combined with a binary release tree.
//
// All five are reusable without a reset step: arrival is encoded with a
// sense word that inverts between episodes. All spinning is busy-wait with a
// periodic scheduler yield; nothing on the wait path allocates, logs, or
// enters the kernel. Participants are expected to run on dedicated OS
// threads (runtime.LockOSThread) when latency matters.
//
// The low-level types mirror the three-phase shape topology init, per-thread
// state init, wait. The Group/Waiter surface wraps the same machinery behind
// a runtime-selectable Kind for callers that do not care which algorithm
// they get.
//
// Misuse is not detected: waiting with fewer participants than declared
// deadlocks, with more corrupts the episode. See the package tests for the
// intended call patterns.
package barrier
