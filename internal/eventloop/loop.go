// Package eventloop implements the single-threaded, input-biased
// cooperative loop that owns the display model exclusively. It is
// grounded on original_source/src/tui/event_loop.rs's
// `tokio::select! { biased; ... }` loop: Go has no native select bias,
// so priority is reconstructed with a non-blocking poll of the input
// channel before every blocking select. The loop is free-standing and
// terminal-agnostic; internal/tui drives it by translating key
// presses into Input values and rendering the Snapshot values it
// emits, and a headless caller could drive it with no terminal at all.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cachesweep/cachesweep/internal/deleter"
	"github.com/cachesweep/cachesweep/internal/logging"
	"github.com/cachesweep/cachesweep/internal/model"
	"github.com/cachesweep/cachesweep/internal/sizer"
	"github.com/cachesweep/cachesweep/internal/walker"
)

// DefaultTickInterval matches spec.md §4.7's ~16ms (~60Hz) tick.
const DefaultTickInterval = 16 * time.Millisecond

// DefaultVisibleHeight is used until the first InputResize arrives.
const DefaultVisibleHeight = 20

// Config configures a Loop. Walker, Sizer, and Deleter are constructed
// by the caller (cmd/cachesweep) so the loop stays free of CLI-flag
// knowledge.
type Config struct {
	Walker        *walker.Walker
	Sizer         *sizer.Sizer
	Deleter       *deleter.Deleter
	SortKey       model.SortKey
	ShowProtected bool
	TickInterval  time.Duration
}

type deleteCompletion struct {
	StableIndex int
	Err         error
}

// Loop is the cooperative event loop described in spec.md §4.7/§5. It
// is not safe for concurrent use: exactly one goroutine should call
// Run, and Send/Snapshots are the only thread-safe entry points.
type Loop struct {
	model   *model.DisplayModel
	walker  *walker.Walker
	sizer   *sizer.Sizer
	deleter *deleter.Deleter
	logger  *logging.Logger

	tick          time.Duration
	visibleHeight int

	input     chan Input
	snapshots chan Snapshot

	scanComplete bool
	fatalErr     error

	pendingConfirm *ConfirmRequest
	notices        []string
}

// New returns a Loop ready to Run.
func New(cfg Config) *Loop {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	m := model.New(cfg.SortKey)
	m.SetHideSensitive(!cfg.ShowProtected)
	return &Loop{
		model:         m,
		walker:        cfg.Walker,
		sizer:         cfg.Sizer,
		deleter:       cfg.Deleter,
		logger:        logging.Get("eventloop"),
		tick:          tick,
		visibleHeight: DefaultVisibleHeight,
		input:         make(chan Input, 16),
		snapshots:     make(chan Snapshot, 4),
	}
}

// Send enqueues an input event. It never blocks: a full input buffer
// means the loop is already behind on keystrokes, and dropping a
// held-key repeat costs nothing a human would notice.
func (l *Loop) Send(in Input) {
	select {
	case l.input <- in:
	default:
	}
}

// Snapshots returns the channel of display snapshots. It closes when
// Run returns, after delivering one final Snapshot with Done set.
func (l *Loop) Snapshots() <-chan Snapshot {
	return l.snapshots
}

// Run drives the loop until quit, a fatal scan-root error, or ctx is
// cancelled. On exit it cancels ctx and waits (up to two seconds) for
// the walker's batch channel to close; it does not wait for in-flight
// size/delete goroutines, which observe the cancelled ctx on their own.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer close(l.snapshots)

	batches, rootErrCh := l.walker.Run(ctx)
	sizeCh := make(chan sizer.Completion, 64)
	deleteCh := make(chan deleteCompletion, 16)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	quitting := false

	for !quitting {
		// Phase 1: non-blocking poll gives input strict priority over
		// every other source, per spec.md §4.7's biased selection.
		select {
		case in, ok := <-l.input:
			if ok {
				quitting = l.handleInput(ctx, in, deleteCh)
			}
			continue
		default:
		}

		select {
		case in, ok := <-l.input:
			if ok {
				quitting = l.handleInput(ctx, in, deleteCh)
			}

		case batch, ok := <-batches:
			if !ok {
				batches = nil
				l.scanComplete = true
				continue
			}
			l.ingest(ctx, batch, sizeCh)

		case comp := <-sizeCh:
			if err := l.model.UpdateSize(comp.StableIndex, comp.State); err != nil {
				l.logger.Debug("size update rejected", "index", comp.StableIndex, "error", err)
			}

		case dc := <-deleteCh:
			l.applyDeleteCompletion(dc)

		case rootErr, ok := <-rootErrCh:
			if !ok {
				rootErrCh = nil
			} else if rootErr != nil {
				l.fatalErr = fmt.Errorf("eventloop: scan root: %w", rootErr)
				quitting = true
			}

		case <-ticker.C:
			l.model.Rebuild()
			l.pushSnapshot(false)

		case <-ctx.Done():
			quitting = true
		}
	}

	cancel()
	l.drainOnExit(batches, sizeCh, deleteCh)
	l.model.Rebuild()
	l.pushSnapshot(true)
	return l.fatalErr
}

// drainOnExit reads the walker's batch channel until it closes, then
// discards whatever size and delete completions are already queued and
// returns as soon as both channels are empty. The whole drain is bounded
// by a two-second deadline. Size and delete goroutines still running at
// that point are not waited for.
func (l *Loop) drainOnExit(batches <-chan []model.Result, sizeCh <-chan sizer.Completion, deleteCh <-chan deleteCompletion) {
	deadline := time.NewTimer(2 * time.Second)
	defer deadline.Stop()

	for batches != nil {
		select {
		case _, ok := <-batches:
			if !ok {
				batches = nil
			}
		case <-deadline.C:
			return
		}
	}
	for {
		select {
		case <-sizeCh:
		case <-deleteCh:
		case <-deadline.C:
			return
		default:
			return
		}
	}
}

func (l *Loop) ingest(ctx context.Context, batch []model.Result, sizeCh chan<- sizer.Completion) {
	ids := l.model.Append(batch...)
	for _, id := range ids {
		id := id
		r, ok := l.model.Result(id)
		if !ok {
			continue
		}
		go l.sizer.Compute(ctx, id, r.Path, sizeCh)
	}
}

func (l *Loop) handleInput(ctx context.Context, in Input, deleteCh chan<- deleteCompletion) (quit bool) {
	switch in.Kind {
	case InputQuit:
		return true

	case InputUp:
		l.model.MoveCursor(-1)
	case InputDown:
		l.model.MoveCursor(1)
	case InputPageUp:
		l.model.MoveCursor(-l.visibleHeight)
	case InputPageDown:
		l.model.MoveCursor(l.visibleHeight)
	case InputHome:
		l.model.MoveCursor(-l.model.Len())
	case InputEnd:
		l.model.MoveCursor(l.model.Len())

	case InputToggleMark:
		if id, ok := l.model.CursorStableIndex(); ok {
			l.model.ToggleMark(id)
		}
	case InputSelectAll:
		for _, id := range l.model.View() {
			if !l.model.Marked(id) {
				l.model.ToggleMark(id)
			}
		}
	case InputSelectNone:
		l.model.ClearMarks()

	case InputDelete:
		l.handleDelete(ctx, deleteCh)
	case InputDeleteMarked:
		l.handleDeleteMarked()
	case InputConfirm:
		l.handleConfirm(ctx, deleteCh)
	case InputCancel:
		l.pendingConfirm = nil

	case InputCycleSort:
		l.model.CycleSort()
	case InputFilterAll:
		l.model.SetFilter(model.Filter{Kind: model.FilterAll})
	case InputFilterTarget:
		l.model.SetFilter(model.Filter{Kind: model.FilterByTarget, Target: in.Text})
	case InputFilterSearch:
		l.model.SetFilter(model.Filter{Kind: model.FilterBySearch, Search: in.Text})
	case InputToggleShowProtected:
		l.model.SetHideSensitive(!l.model.HideSensitive())

	case InputResize:
		if in.Height > 0 {
			l.visibleHeight = in.Height
		}
	}
	return false
}

// handleDelete services a single-item delete request from the cursor
// row. Sensitive rows never reach the deleter: spec.md's S5 requires
// delete_state to remain Alive and a modal to surface instead.
func (l *Loop) handleDelete(ctx context.Context, deleteCh chan<- deleteCompletion) {
	idx, ok := l.model.CursorStableIndex()
	if !ok {
		return
	}
	result, ok := l.model.Result(idx)
	if !ok || l.model.DeleteState(idx).Kind != model.DeleteAlive {
		return
	}
	if result.Sensitive {
		l.pendingConfirm = &ConfirmRequest{Kind: ConfirmSensitiveRefused, Indices: []int{idx}}
		return
	}
	l.beginDelete(ctx, idx, deleteCh)
}

// handleDeleteMarked arms a confirmation covering every currently
// marked row; nothing is deleted until InputConfirm arrives.
func (l *Loop) handleDeleteMarked() {
	marks := l.model.Marks()
	if len(marks) == 0 {
		return
	}
	l.pendingConfirm = &ConfirmRequest{Kind: ConfirmDeleteMarked, Indices: marks}
}

func (l *Loop) handleConfirm(ctx context.Context, deleteCh chan<- deleteCompletion) {
	req := l.pendingConfirm
	l.pendingConfirm = nil
	if req == nil {
		return
	}
	switch req.Kind {
	case ConfirmSensitiveRefused:
		// Purely dismissible; the filesystem was never touched.
	case ConfirmDeleteMarked:
		var refused []int
		for _, idx := range req.Indices {
			result, ok := l.model.Result(idx)
			if !ok || l.model.DeleteState(idx).Kind != model.DeleteAlive {
				continue
			}
			if result.Sensitive {
				refused = append(refused, idx)
				continue
			}
			l.beginDelete(ctx, idx, deleteCh)
		}
		if len(refused) > 0 {
			l.pendingConfirm = &ConfirmRequest{Kind: ConfirmSensitiveRefused, Indices: refused}
		}
	}
}

// beginDelete transitions idx to Deleting and completes the removal on
// a background goroutine, per the component table's "asynchronously"
// requirement: a large recursive delete must never stall the loop's
// input latency.
func (l *Loop) beginDelete(ctx context.Context, idx int, deleteCh chan<- deleteCompletion) {
	result, ok := l.model.Result(idx)
	if !ok || l.model.DeleteState(idx).Kind != model.DeleteAlive {
		return
	}
	if err := l.model.MarkDeleting(idx); err != nil {
		return
	}
	go func() {
		err := l.deleter.Delete(ctx, result)
		select {
		case deleteCh <- deleteCompletion{StableIndex: idx, Err: err}:
		case <-ctx.Done():
		}
	}()
}

func (l *Loop) applyDeleteCompletion(dc deleteCompletion) {
	if dc.Err != nil {
		reason := dc.Err.Error()
		if errors.Is(dc.Err, deleter.ErrSensitive) {
			reason = "refused: sensitive path"
		}
		if err := l.model.MarkDeleteFailed(dc.StableIndex, reason); err != nil {
			l.logger.Debug("delete-failed transition rejected", "index", dc.StableIndex, "error", err)
		}
		l.logger.Warn("delete failed", "index", dc.StableIndex, "reason", reason)
		if result, ok := l.model.Result(dc.StableIndex); ok {
			l.notices = append(l.notices, fmt.Sprintf("failed to delete %s: %s", result.Path, reason))
		}
		return
	}
	if err := l.model.MarkDeleted(dc.StableIndex); err != nil {
		l.logger.Debug("deleted transition rejected", "index", dc.StableIndex, "error", err)
	}
}
