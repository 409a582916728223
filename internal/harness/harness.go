// FILENAME: internal/harness/harness.go
package harness

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xkilldash9x/spingate/barrier"
	"github.com/xkilldash9x/spingate/internal/config"
	"github.com/xkilldash9x/spingate/internal/models"
	"github.com/xkilldash9x/spingate/internal/spin"
	"go.uber.org/zap"
)

// Config describes one barrier run.
type Config struct {
	Kind     barrier.Kind
	Threads  int
	Episodes int

	// PinThreads locks each participant to an OS thread for the duration
	// of the run. This is how the barriers are meant to be deployed.
	PinThreads bool

	// FreezeGC disables the garbage collector around the measured
	// window so stop-the-world pauses do not pollute episode latencies.
	FreezeGC bool

	// Progress, if set, is called from participant 0 every
	// config.ProgressInterval completed episodes.
	Progress func(completed int)
}

// Runner drives barrier groups through measured episode runs.
type Runner struct {
	logger *zap.Logger
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// slotStride spaces the publication slots a cache line apart so the fence
// check itself does not add contention.
const slotStride = 8

// Run executes cfg.Episodes barrier episodes across cfg.Threads
// participants and reports throughput, episode latency, and the outcome of
// a per-episode publication check.
//
// The check doubles as a correctness probe: before each episode every
// participant writes the episode number into its own slot, and after the
// barrier it reads its neighbor's slot. The barrier's ordering contract
// says the write must be visible; a stale read is counted as a fence
// failure. A second crossing separates the check from the next episode's
// writes, so each measured episode costs two barrier waits.
//
// Cancellation is cooperative and only takes effect at episode boundaries:
// participant 0 stamps the current episode number into an abort word
// before entering the barrier. The stamp is visible to every participant
// once that episode's barrier completes and matches no other episode, so
// all of them stop together. Wait itself can never be interrupted.
func (r *Runner) Run(ctx context.Context, cfg Config) (models.RunResult, error) {
	if cfg.Threads < 1 {
		return models.RunResult{}, fmt.Errorf("harness: thread count %d, need at least 1", cfg.Threads)
	}
	if cfg.Episodes < 1 {
		return models.RunResult{}, fmt.Errorf("harness: episode count %d, need at least 1", cfg.Episodes)
	}

	group, err := barrier.New(cfg.Kind, uint32(cfg.Threads))
	if err != nil {
		return models.RunResult{}, err
	}

	// Join on this goroutine so virtual ids assign deterministically.
	waiters := make([]barrier.Waiter, cfg.Threads)
	for i := range waiters {
		waiters[i] = group.Join()
	}

	slots := make([]uint64, cfg.Threads*slotStride)

	sampleStride := 1
	if cfg.Episodes > config.MaxLatencySamples {
		sampleStride = cfg.Episodes/config.MaxLatencySamples + 1
	}
	samples := make([]time.Duration, 0, cfg.Episodes/sampleStride+1)

	var (
		readyWg       sync.WaitGroup
		wg            sync.WaitGroup
		startFlag     uint32
		fenceFailures uint64
		stopAt        uint64 // episode stamp written by participant 0
		completed     int
		aborted       bool
	)

	if cfg.FreezeGC {
		old := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(old)
	}

	r.logger.Info("starting run",
		zap.Stringer("kind", cfg.Kind),
		zap.Int("threads", cfg.Threads),
		zap.Int("episodes", cfg.Episodes),
	)

	for id := 0; id < cfg.Threads; id++ {
		wg.Add(1)
		readyWg.Add(1)

		go func(id int, w barrier.Waiter) {
			defer wg.Done()
			if cfg.PinThreads {
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()
			}

			// Line up, then spin for the common start so episode 1
			// is already contested.
			readyWg.Done()
			for i := 0; atomic.LoadUint32(&startFlag) == 0; i++ {
				spin.Stall(i)
			}

			mine := id * slotStride
			next := ((id + 1) % cfg.Threads) * slotStride

			for e := 1; e <= cfg.Episodes; e++ {
				if id == 0 && ctx.Err() != nil {
					atomic.StoreUint64(&stopAt, uint64(e))
				}
				slots[mine] = uint64(e)

				if id == 0 {
					t0 := time.Now()
					w.Wait()
					if e%sampleStride == 0 {
						samples = append(samples, time.Since(t0))
					}
				} else {
					w.Wait()
				}

				if slots[next] != uint64(e) {
					atomic.AddUint64(&fenceFailures, 1)
				}

				// Second crossing: keeps the check above ordered
				// before anyone writes its slot for episode e+1.
				w.Wait()

				if id == 0 {
					completed = e
					if cfg.Progress != nil && e%config.ProgressInterval == 0 {
						cfg.Progress(e)
					}
				}
				if atomic.LoadUint64(&stopAt) == uint64(e) {
					if id == 0 {
						aborted = true
					}
					return
				}
			}
		}(id, waiters[id])
	}

	readyWg.Wait()
	start := time.Now()
	atomic.StoreUint32(&startFlag, 1)
	wg.Wait()
	elapsed := time.Since(start)

	result := models.NewRunResult(
		models.RunConfig{Kind: cfg.Kind.String(), Threads: cfg.Threads, Episodes: cfg.Episodes},
		completed, elapsed, samples, atomic.LoadUint64(&fenceFailures), aborted,
	)

	if result.FenceFailures > 0 {
		r.logger.Error("publication check failed", zap.Uint64("failures", result.FenceFailures))
	}
	r.logger.Info("run complete", zap.String("result", result.String()))

	return result, nil
}

// RunSuite runs every kind in order with the same thread/episode settings.
// emit, if set, receives each result as it lands. A cancelled context stops
// the suite after the run that observed it.
func (r *Runner) RunSuite(ctx context.Context, base Config, kinds []barrier.Kind, emit func(models.RunResult)) ([]models.RunResult, error) {
	results := make([]models.RunResult, 0, len(kinds))
	for _, kind := range kinds {
		cfg := base
		cfg.Kind = kind

		res, err := r.Run(ctx, cfg)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if emit != nil {
			emit(res)
		}
		if res.Aborted {
			break
		}
	}
	return results, ctx.Err()
}
