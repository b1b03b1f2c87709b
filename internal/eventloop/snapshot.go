package eventloop

import (
	"time"

	"github.com/cachesweep/cachesweep/internal/model"
)

// ConfirmKind names the reason a Snapshot carries a pending confirmation.
type ConfirmKind int

const (
	// ConfirmDeleteMarked asks the user to confirm deleting every marked
	// row; InputConfirm executes it, InputCancel discards it.
	ConfirmDeleteMarked ConfirmKind = iota
	// ConfirmSensitiveRefused is a dismissible notice, not a question:
	// the listed rows were never deleted because they are sensitive.
	// InputConfirm and InputCancel both just dismiss it.
	ConfirmSensitiveRefused
)

// ConfirmRequest describes a pending modal the TUI must render before
// the loop proceeds with the affected rows.
type ConfirmRequest struct {
	Kind    ConfirmKind
	Indices []int
}

// Row is a read-only projection of one result for rendering.
type Row struct {
	ID        int
	Path      string
	Target    string
	Profile   string
	ModTime   time.Time
	Sensitive bool
	Marked    bool
	Size      model.SizeState
	Delete    model.DeleteState
}

// Snapshot is an immutable projection of the display model pushed to the
// TUI once per tick. The TUI never touches the model directly.
type Snapshot struct {
	Rows    []Row
	Cursor  int
	SortKey model.SortKey
	Filter  model.Filter

	ScanComplete  bool
	DirsVisited   int64
	ScanErrCount  int
	ShowProtected bool

	TotalCount int
	TotalBytes int64

	PendingConfirm *ConfirmRequest
	Notices        []string

	// Done is set on the final snapshot pushed as the loop exits.
	Done bool
	Err  error
}

func (l *Loop) buildSnapshot(done bool) Snapshot {
	view := l.model.View()
	rows := make([]Row, 0, len(view))
	var totalBytes int64
	var totalCount int
	for _, id := range view {
		r, ok := l.model.Result(id)
		if !ok {
			continue
		}
		size := l.model.SizeState(id)
		del := l.model.DeleteState(id)
		if size.Kind == model.SizeReady && del.Kind != model.DeleteDeleted {
			totalBytes += size.Bytes
			totalCount++
		}
		rows = append(rows, Row{
			ID:        id,
			Path:      r.Path,
			Target:    r.Target,
			Profile:   r.Profile,
			ModTime:   r.ModTime,
			Sensitive: r.Sensitive,
			Marked:    l.model.Marked(id),
			Size:      size,
			Delete:    del,
		})
	}

	notices := l.notices
	l.notices = nil

	return Snapshot{
		Rows:          rows,
		Cursor:        l.model.Cursor(),
		SortKey:       l.model.SortKey(),
		Filter:        l.model.Filter(),
		ScanComplete:  l.scanComplete,
		DirsVisited:   l.walker.DirsVisited(),
		ScanErrCount:  len(l.walker.Errors()),
		ShowProtected: !l.model.HideSensitive(),
		TotalCount:    totalCount,
		TotalBytes:    totalBytes,
		PendingConfirm: l.pendingConfirm,
		Notices:        notices,
		Done:           done,
		Err:            l.fatalErr,
	}
}

func (l *Loop) pushSnapshot(done bool) {
	snap := l.buildSnapshot(done)
	select {
	case l.snapshots <- snap:
	default:
		// The renderer is behind; drop this one and let the next tick
		// carry a fresher snapshot rather than block the loop on a slow
		// consumer.
		if done {
			// Never drop the final snapshot: block until the consumer
			// receives it so the caller observes loop termination.
			l.snapshots <- snap
		}
	}
}
