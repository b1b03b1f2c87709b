// Package batcher coalesces a stream of individually-matched results
// into bounded groups before handing them to a channel, amortizing the
// cost of the channel send the way original_source/src/scanner/batcher.rs's
// ResultBatcher coalesces ScanResults before sending on its mpsc channel.
// Unlike the Rust original, which only flushes on batch-full or on Drop,
// this Batcher also flushes on a short idle timeout (spec.md §4.5), so
// UI latency stays bounded when the match rate is low.
package batcher

import (
	"sync"
	"time"

	"github.com/cachesweep/cachesweep/internal/model"
)

// batchSize mirrors the original ResultBatcher's BATCH_SIZE constant.
const batchSize = 50

// idleFlushTimeout is how long a partial batch waits for more entries
// before being flushed on its own, keeping single-digit-millisecond UI
// latency during a slow-match phase of the walk.
const idleFlushTimeout = 5 * time.Millisecond

// Batcher buffers model.Result values and flushes them to its output
// channel once the buffer reaches batchSize, on an explicit Flush, or
// after idleFlushTimeout has elapsed since the last Add. Safe for
// concurrent use: fastwalk invokes the walk callback from multiple
// worker goroutines, the same reason the original ResultBatcher is
// shared behind a mutex rather than owned by a single walker thread.
type Batcher struct {
	mu      sync.Mutex
	out     chan<- []model.Result
	buffer  []model.Result
	timer   *time.Timer
	stopped bool
}

// New returns a Batcher that flushes full batches to out.
func New(out chan<- []model.Result) *Batcher {
	return &Batcher{
		out:    out,
		buffer: make([]model.Result, 0, batchSize),
	}
}

// Add appends result to the buffer, flushing automatically once the
// buffer reaches batchSize; otherwise it (re)arms the idle-flush timer.
func (b *Batcher) Add(result model.Result) {
	b.mu.Lock()
	b.buffer = append(b.buffer, result)
	full := len(b.buffer) >= batchSize
	var batch []model.Result
	if full {
		batch = b.buffer
		b.buffer = make([]model.Result, 0, batchSize)
		b.stopTimerLocked()
	} else {
		b.armTimerLocked()
	}
	b.mu.Unlock()

	if full {
		b.out <- batch
	}
}

// onIdle is invoked by the idle timer; it flushes whatever is buffered,
// if anything, without racing an in-progress Add or Flush.
func (b *Batcher) onIdle() {
	b.Flush()
}

func (b *Batcher) armTimerLocked() {
	if b.stopped {
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(idleFlushTimeout, b.onIdle)
		return
	}
	b.timer.Reset(idleFlushTimeout)
}

func (b *Batcher) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
	}
}

// Flush sends any buffered results as a single batch and clears the
// buffer. A no-op when the buffer is empty.
func (b *Batcher) Flush() {
	b.mu.Lock()
	batch := b.buffer
	b.buffer = make([]model.Result, 0, batchSize)
	b.stopTimerLocked()
	b.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	b.out <- batch
}

// Stop disarms the idle-flush timer without flushing. Call after a final
// Flush to guarantee no further sends on out (e.g. once the walker has
// closed its batch channel).
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.stopTimerLocked()
}
